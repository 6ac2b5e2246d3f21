// SPDX-License-Identifier: Apache-2.0

// Package ntlm implements the NTLM authentication scheme on top of
// github.com/Azure/go-ntlmssp, which provides the NTLMSSP message
// codec. NTLM is a connection-bound handshake scheme and is never
// cached for preemptive reuse.
//
// Import for side effects to make the scheme available in the default
// registry.
package ntlm

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/go-ntlmssp"
	httpauth "github.com/golang-auth/go-httpauth"
)

func init() {
	httpauth.Register(httpauth.SchemeNTLM, New)
}

type state int

const (
	stateUninitiated state = iota
	stateChallengeReceived
	stateType1Generated
	stateType2Received
	stateType3Generated
	stateFailed
)

// Scheme is an NTLM handshake in progress. The bare "NTLM" challenge
// triggers the Type-1 negotiate message; the follow-up challenge
// carries the base64 Type-2 message that Authorize answers with the
// Type-3 response.
type Scheme struct {
	state     state
	challenge []byte
}

// New returns a fresh NTLM handler.
func New() httpauth.Scheme {
	return &Scheme{}
}

func (s *Scheme) Name() string { return httpauth.SchemeNTLM }

func (s *Scheme) Realm() string { return "" }

func (s *Scheme) Complete() bool {
	return s.state == stateType3Generated || s.state == stateFailed
}

func (s *Scheme) ProcessChallenge(ch httpauth.Challenge) error {
	name, rest := httpauth.SplitChallenge(ch.Raw)
	if !strings.EqualFold(name, "NTLM") {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeNTLM,
			Reason: "unexpected scheme token " + name,
		}
	}

	if rest == "" {
		// A bare challenge after the handshake started means the
		// server rejected our messages.
		if s.state == stateUninitiated {
			s.state = stateChallengeReceived
		} else {
			s.state = stateFailed
		}
		return nil
	}

	msg, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeNTLM,
			Reason: "challenge is not valid base64: " + err.Error(),
		}
	}
	s.challenge = msg
	s.state = stateType2Received
	return nil
}

func (s *Scheme) Authorize(creds httpauth.Credentials, _ *http.Request) (string, error) {
	user, domain, domainNeeded := ntlmssp.GetDomain(creds.UserName())
	workstation := ""
	if nt, ok := creds.(*httpauth.NTCredentials); ok {
		if nt.Domain != "" {
			domain, domainNeeded = nt.Domain, false
		}
		workstation = nt.Workstation
	}

	switch s.state {
	case stateChallengeReceived:
		msg, err := ntlmssp.NewNegotiateMessage(domain, workstation)
		if err != nil {
			return "", fmt.Errorf("ntlm: building negotiate message: %w", err)
		}
		s.state = stateType1Generated
		return "NTLM " + base64.StdEncoding.EncodeToString(msg), nil

	case stateType2Received:
		msg, err := ntlmssp.ProcessChallenge(s.challenge, user, creds.Password(), domainNeeded)
		if err != nil {
			return "", fmt.Errorf("ntlm: answering challenge: %w", err)
		}
		s.state = stateType3Generated
		return "NTLM " + base64.StdEncoding.EncodeToString(msg), nil

	case stateFailed:
		return "", fmt.Errorf("ntlm: authentication rejected by server")

	default:
		return "", fmt.Errorf("ntlm: out of sequence request in state %d", s.state)
	}
}
