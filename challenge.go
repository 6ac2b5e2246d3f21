// SPDX-License-Identifier: Apache-2.0

package httpauth

import "strings"

// Challenge is one authentication challenge extracted from a response
// header. Raw holds the entire original header value, not just the
// part after the scheme token, so a scheme handler parsing its own
// parameters sees the complete value.
type Challenge struct {
	// SchemeName is the lowercase scheme token, eg. "digest".
	SchemeName string

	// Raw is the complete original header value.
	Raw string
}

// ChallengeSet maps lowercase scheme names to the challenge most
// recently seen for each scheme within one response. When a response
// carries two headers naming the same scheme, the later one in header
// order overwrites the earlier.
type ChallengeSet map[string]Challenge

func isWhitespace(b byte) bool { return b == ' ' || b == '\t' }

// parseChallengeHeaders builds a ChallengeSet from the raw values of
// one response's challenge headers, in header order. Only the scheme
// token is extracted here; parameter parsing belongs to the scheme
// handlers.
func parseChallengeHeaders(values []string) (ChallengeSet, error) {
	set := make(ChallengeSet, len(values))
	for _, v := range values {
		if v == "" {
			return nil, &MalformedChallengeError{Reason: "header value is empty"}
		}
		pos := 0
		for pos < len(v) && isWhitespace(v[pos]) {
			pos++
		}
		begin := pos
		for pos < len(v) && !isWhitespace(v[pos]) {
			pos++
		}
		name := strings.ToLower(v[begin:pos])
		if name == "" {
			return nil, &MalformedChallengeError{Reason: "header value has no scheme token"}
		}
		set[name] = Challenge{SchemeName: name, Raw: v}
	}
	return set, nil
}

// SplitChallenge splits a raw challenge value into its scheme token
// and the remainder - a token68 or an auth-param list - with
// surrounding whitespace trimmed. Scheme handlers use it as the first
// step of parsing their own challenge.
func SplitChallenge(raw string) (scheme, rest string) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, " \t"); i >= 0 {
		return raw[:i], strings.TrimSpace(raw[i+1:])
	}
	return raw, ""
}

// ParseChallengeParams parses a comma-separated auth-param list,
// respecting quoted values and backslash escapes inside quotes. Keys
// are lowercased; quotes around values are removed.
func ParseChallengeParams(list string) map[string]string {
	params := make(map[string]string)
	list = strings.TrimSpace(list)
	if list == "" {
		return params
	}

	inQuotes := false
	escapeNext := false
	start := 0

	addParam := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key, value := splitParam(s)
		if key != "" {
			params[key] = value
		}
	}

	for i, r := range list {
		if escapeNext {
			escapeNext = false
			continue
		}
		switch r {
		case '\\':
			escapeNext = true
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				addParam(list[start:i])
				start = i + 1
			}
		}
	}
	if start < len(list) {
		addParam(list[start:])
	}

	return params
}

// splitParam splits `key=value` or `key="value"`, removing quotes and
// unescaping the value.
func splitParam(param string) (string, string) {
	idx := strings.Index(param, "=")
	if idx == -1 {
		return "", ""
	}

	key := strings.ToLower(strings.TrimSpace(param[:idx]))
	value := strings.TrimSpace(param[idx+1:])
	if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
		value = value[1 : len(value)-1]
		value = strings.ReplaceAll(value, `\"`, `"`)
		value = strings.ReplaceAll(value, `\\`, `\`)
	}

	return key, value
}
