// SPDX-License-Identifier: Apache-2.0

package httpauth

import "fmt"

// MalformedChallengeError indicates that a challenge header exists
// for a scheme but cannot be parsed by that scheme's handler, or that
// a challenge header had no value at all. It is the only hard error
// of the negotiation core: every other adverse condition (unsupported
// scheme, missing credentials, missing collaborators) degrades to
// fewer candidate options and a diagnostic event.
type MalformedChallengeError struct {
	// Scheme is the lowercase scheme name the challenge was routed
	// to, or empty when the failure happened before routing.
	Scheme string

	// Reason describes what could not be parsed.
	Reason string
}

func (e *MalformedChallengeError) Error() string {
	if e.Scheme == "" {
		return "httpauth: malformed challenge: " + e.Reason
	}
	return fmt.Sprintf("httpauth: malformed %s challenge: %s", e.Scheme, e.Reason)
}
