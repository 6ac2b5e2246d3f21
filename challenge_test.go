// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChallenges(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected ChallengeSet
		wantErr  bool
	}{
		{
			name:     "no headers",
			values:   nil,
			expected: ChallengeSet{},
		},
		{
			name:   "single basic",
			values: []string{`Basic realm="Dev"`},
			expected: ChallengeSet{
				"basic": {SchemeName: "basic", Raw: `Basic realm="Dev"`},
			},
		},
		{
			name:   "two schemes keep full raw values",
			values: []string{`Basic realm="x"`, `Digest realm="y", nonce="abc"`},
			expected: ChallengeSet{
				"basic":  {SchemeName: "basic", Raw: `Basic realm="x"`},
				"digest": {SchemeName: "digest", Raw: `Digest realm="y", nonce="abc"`},
			},
		},
		{
			name:   "duplicate scheme overwrites with later header",
			values: []string{`Basic realm="x"`, `Basic realm="y"`},
			expected: ChallengeSet{
				"basic": {SchemeName: "basic", Raw: `Basic realm="y"`},
			},
		},
		{
			name:   "scheme token is lowercased",
			values: []string{"NTLM"},
			expected: ChallengeSet{
				"ntlm": {SchemeName: "ntlm", Raw: "NTLM"},
			},
		},
		{
			name:   "leading whitespace skipped",
			values: []string{"  Negotiate dG9rZW4="},
			expected: ChallengeSet{
				"negotiate": {SchemeName: "negotiate", Raw: "  Negotiate dG9rZW4="},
			},
		},
		{
			name:    "empty header value",
			values:  []string{""},
			wantErr: true,
		},
		{
			name:    "whitespace only header value",
			values:  []string{"   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := parseChallengeHeaders(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				var mce *MalformedChallengeError
				assert.ErrorAs(t, err, &mce)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, set)
		})
	}
}

func TestParseChallengesFromHeader(t *testing.T) {
	h := http.Header{}
	h.Add("Www-Authenticate", `Basic realm="x"`)
	h.Add("Www-Authenticate", `Digest realm="y", nonce="n"`)
	h.Add("Proxy-Authenticate", `Basic realm="proxy"`)

	s := NewTargetStrategy()
	set, err := s.ParseChallenges(h)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, `Basic realm="x"`, set["basic"].Raw)

	p := NewProxyStrategy()
	set, err = p.ParseChallenges(h)
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, `Basic realm="proxy"`, set["basic"].Raw)
}

func TestSplitChallenge(t *testing.T) {
	tests := []struct {
		raw    string
		scheme string
		rest   string
	}{
		{"Basic", "Basic", ""},
		{"Negotiate dG9rZW4=", "Negotiate", "dG9rZW4="},
		{`Digest realm="x", nonce="n"`, "Digest", `realm="x", nonce="n"`},
		{"  Basic   realm=\"x\"", "Basic", `realm="x"`},
	}

	for _, tt := range tests {
		scheme, rest := SplitChallenge(tt.raw)
		assert.Equal(t, tt.scheme, scheme, tt.raw)
		assert.Equal(t, tt.rest, rest, tt.raw)
	}
}

func TestParseChallengeParams(t *testing.T) {
	tests := []struct {
		name     string
		list     string
		expected map[string]string
	}{
		{
			name:     "empty",
			list:     "",
			expected: map[string]string{},
		},
		{
			name: "quoted and unquoted",
			list: `realm="Dev", charset=UTF-8`,
			expected: map[string]string{
				"realm":   "Dev",
				"charset": "UTF-8",
			},
		},
		{
			name: "quoted value containing comma",
			list: `realm="a, b", nonce="n"`,
			expected: map[string]string{
				"realm": "a, b",
				"nonce": "n",
			},
		},
		{
			name: "escaped quote in quoted value",
			list: `realm="say \"hi\""`,
			expected: map[string]string{
				"realm": `say "hi"`,
			},
		},
		{
			name: "keys lowercased",
			list: `Realm="x", NONCE="n"`,
			expected: map[string]string{
				"realm": "x",
				"nonce": "n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseChallengeParams(tt.list))
		})
	}
}
