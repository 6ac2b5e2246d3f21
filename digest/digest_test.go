// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpauth "github.com/golang-auth/go-httpauth"
)

const rfc2617Challenge = `Digest realm="testrealm@host.com", ` +
	`qop="auth,auth-int", nonce="dcd98b7102dd2f0e8b11d0f600bfb0c093", ` +
	`opaque="5ccc069c403ebaf9f0171e9517f40e41"`

func TestRegistered(t *testing.T) {
	f := httpauth.DefaultRegistry().Lookup("digest")
	require.NotNil(t, f)
	assert.Equal(t, "digest", f().Name())
}

func TestProcessChallenge(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        rfc2617Challenge,
	}))

	assert.True(t, s.Complete())
	assert.Equal(t, "testrealm@host.com", s.Realm())
	assert.False(t, s.Stale())
}

func TestProcessChallengeMissingParams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing everything", "Digest"},
		{"missing nonce", `Digest realm="x"`},
		{"missing realm", `Digest nonce="n"`},
		{"unsupported qop", `Digest realm="x", nonce="n", qop="auth-int"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().ProcessChallenge(httpauth.Challenge{SchemeName: "digest", Raw: tt.raw})
			require.Error(t, err)
			var mce *httpauth.MalformedChallengeError
			assert.ErrorAs(t, err, &mce)
		})
	}
}

// The RFC 2617 section 3.5 example: with the documented cnonce, the
// response digest must come out exactly as printed in the RFC.
func TestAuthorizeRFC2617Vector(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        rfc2617Challenge,
	}))
	s.cnonce = "0a4f113b"

	req, _ := http.NewRequest("GET", "http://www.nowhere.org/dir/index.html", nil)
	creds := httpauth.NewUserPassCredentials("Mufasa", "Circle Of Life")

	value, err := s.Authorize(creds, req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(value, "Digest "))
	assert.Contains(t, value, `username="Mufasa"`)
	assert.Contains(t, value, `realm="testrealm@host.com"`)
	assert.Contains(t, value, `nonce="dcd98b7102dd2f0e8b11d0f600bfb0c093"`)
	assert.Contains(t, value, `uri="/dir/index.html"`)
	assert.Contains(t, value, `response="6629fae49393a05397450978507c4ef1"`)
	assert.Contains(t, value, `qop=auth, nc=00000001, cnonce="0a4f113b"`)
	assert.Contains(t, value, `opaque="5ccc069c403ebaf9f0171e9517f40e41"`)
}

func TestAuthorizeIncrementsNonceCount(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n", qop="auth"`,
	}))

	req, _ := http.NewRequest("GET", "http://example.com/a", nil)
	creds := httpauth.NewUserPassCredentials("u", "p")

	first, err := s.Authorize(creds, req)
	require.NoError(t, err)
	second, err := s.Authorize(creds, req)
	require.NoError(t, err)

	assert.Contains(t, first, "nc=00000001")
	assert.Contains(t, second, "nc=00000002")

	// The cnonce is kept across requests under the same nonce.
	cnonce := s.cnonce
	require.NotEmpty(t, cnonce)
	assert.Contains(t, second, cnonce)
}

func TestFreshNonceResetsCount(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n1", qop="auth"`,
	}))

	req, _ := http.NewRequest("GET", "http://example.com/", nil)
	creds := httpauth.NewUserPassCredentials("u", "p")
	_, err := s.Authorize(creds, req)
	require.NoError(t, err)

	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n2", qop="auth", stale=true`,
	}))
	assert.True(t, s.Stale())

	value, err := s.Authorize(creds, req)
	require.NoError(t, err)
	assert.Contains(t, value, "nc=00000001")
	assert.Contains(t, value, `nonce="n2"`)
}

func TestSHA256Algorithm(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n", algorithm=SHA-256, qop="auth"`,
	}))

	req, _ := http.NewRequest("GET", "http://example.com/", nil)
	value, err := s.Authorize(httpauth.NewUserPassCredentials("u", "p"), req)
	require.NoError(t, err)
	assert.Contains(t, value, "algorithm=SHA-256")
}

func TestUnsupportedAlgorithm(t *testing.T) {
	s := New().(*Scheme)
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n", algorithm=MD4`,
	}))

	req, _ := http.NewRequest("GET", "http://example.com/", nil)
	_, err := s.Authorize(httpauth.NewUserPassCredentials("u", "p"), req)
	assert.Error(t, err)
}

func TestAuthorizeWithoutChallenge(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com/", nil)
	_, err := New().Authorize(httpauth.NewUserPassCredentials("u", "p"), req)
	assert.Error(t, err)
}

func TestCacheable(t *testing.T) {
	s := New()
	require.NoError(t, s.ProcessChallenge(httpauth.Challenge{
		SchemeName: "digest",
		Raw:        `Digest realm="x", nonce="n"`,
	}))
	assert.True(t, httpauth.Cacheable(s))
}
