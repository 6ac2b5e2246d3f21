// SPDX-License-Identifier: Apache-2.0

// Package negotiate implements the SPNEGO (Negotiate) authentication
// scheme on top of github.com/jcmturner/gokrb5, which supplies the
// Kerberos client and the SPNEGO token codec. Negotiate is a
// connection-bound handshake scheme and is never cached for
// preemptive reuse.
//
// The scheme registers under both "negotiate" and "kerberos", the two
// names servers challenge with for SPNEGO-wrapped Kerberos.
//
// Import for side effects to make the scheme available in the default
// registry.
package negotiate

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/spnego"

	httpauth "github.com/golang-auth/go-httpauth"
)

func init() {
	httpauth.Register(httpauth.SchemeNegotiate, New)
	httpauth.Register(httpauth.SchemeKerberos, New)
}

// KerberosCredentials carry an established gokrb5 client whose
// credential cache or keytab backs the SPNEGO exchange.
type KerberosCredentials struct {
	Client *client.Client

	// SPN overrides the default HTTP/<hostname> service principal.
	SPN string
}

func (c *KerberosCredentials) UserName() string {
	if c.Client != nil && c.Client.Credentials != nil {
		return c.Client.Credentials.UserName()
	}
	return ""
}

// Password returns the empty string: the ticket material lives inside
// the Kerberos client.
func (c *KerberosCredentials) Password() string { return "" }

// Scheme is a single SPNEGO authentication attempt.
type Scheme struct {
	token    []byte
	complete bool
}

// New returns a fresh Negotiate handler.
func New() httpauth.Scheme {
	return &Scheme{}
}

func (s *Scheme) Name() string { return httpauth.SchemeNegotiate }

// Realm returns the empty string: SPNEGO challenges carry no realm
// parameter, the realm is implicit in the Kerberos principal.
func (s *Scheme) Realm() string { return "" }

func (s *Scheme) Complete() bool { return s.complete }

func (s *Scheme) ProcessChallenge(ch httpauth.Challenge) error {
	name, rest := httpauth.SplitChallenge(ch.Raw)
	if !strings.EqualFold(name, "Negotiate") && !strings.EqualFold(name, "Kerberos") {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeNegotiate,
			Reason: "unexpected scheme token " + name,
		}
	}

	// A Negotiate challenge is bare or carries a single token68; it
	// never has auth-params.
	if strings.ContainsAny(rest, " \t") {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeNegotiate,
			Reason: "challenge must be a bare scheme or a single token",
		}
	}

	if rest == "" {
		s.token = nil
		return nil
	}

	token, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeNegotiate,
			Reason: "challenge token is not valid base64: " + err.Error(),
		}
	}
	// A token alongside the challenge is the server's mutual-auth
	// completion; nothing further to initiate.
	s.token = token
	s.complete = true
	return nil
}

func (s *Scheme) Authorize(creds httpauth.Credentials, req *http.Request) (string, error) {
	kc, ok := creds.(*KerberosCredentials)
	if !ok || kc.Client == nil {
		return "", fmt.Errorf("negotiate: credentials do not carry a kerberos client")
	}

	spn := kc.SPN
	if spn == "" {
		spn = "HTTP/" + req.URL.Hostname()
	}

	cl := spnego.SPNEGOClient(kc.Client, spn)
	if err := cl.AcquireCred(); err != nil {
		return "", fmt.Errorf("negotiate: acquiring credential: %w", err)
	}
	tok, err := cl.InitSecContext()
	if err != nil {
		return "", fmt.Errorf("negotiate: initialising security context: %w", err)
	}
	b, err := tok.Marshal()
	if err != nil {
		return "", fmt.Errorf("negotiate: marshalling SPNEGO token: %w", err)
	}

	s.complete = true
	return "Negotiate " + base64.StdEncoding.EncodeToString(b), nil
}
