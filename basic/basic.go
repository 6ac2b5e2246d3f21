// SPDX-License-Identifier: Apache-2.0

// Package basic implements the Basic authentication scheme (RFC 7617).
//
// Import for side effects to make the scheme available in the default
// registry.
package basic

import (
	"encoding/base64"
	"net/http"
	"strings"

	httpauth "github.com/golang-auth/go-httpauth"
)

func init() {
	httpauth.Register(httpauth.SchemeBasic, New)
}

// Scheme is a single Basic authentication attempt. Basic completes in
// one round and is cacheable for preemptive reuse.
type Scheme struct {
	realm    string
	charset  string
	complete bool
}

// New returns a fresh Basic handler.
func New() httpauth.Scheme {
	return &Scheme{}
}

func (s *Scheme) Name() string { return httpauth.SchemeBasic }

func (s *Scheme) Realm() string { return s.realm }

func (s *Scheme) Complete() bool { return s.complete }

func (s *Scheme) ProcessChallenge(ch httpauth.Challenge) error {
	name, rest := httpauth.SplitChallenge(ch.Raw)
	if !strings.EqualFold(name, "Basic") {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeBasic,
			Reason: "unexpected scheme token " + name,
		}
	}

	params := httpauth.ParseChallengeParams(rest)
	s.realm = params["realm"]
	s.charset = params["charset"]
	s.complete = true
	return nil
}

func (s *Scheme) Authorize(creds httpauth.Credentials, _ *http.Request) (string, error) {
	token := creds.UserName() + ":" + creds.Password()
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(token)), nil
}
