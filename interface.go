package httpauth

import "net/http"

// Scheme is one authentication attempt against one server challenge.
// Instances are stateful and single-use: a factory produces a fresh
// Scheme per attempt, and the instance is not safe for concurrent use.
type Scheme interface {
	// Name returns the canonical lowercase scheme name, eg. "basic".
	Name() string

	// Realm returns the protection realm carried by the processed
	// challenge, or the empty string when the scheme has none.
	Realm() string

	// ProcessChallenge ingests one challenge for this scheme. It is
	// called once before the first Authorize, and again for each
	// follow-up challenge of a multi-round handshake. A challenge the
	// scheme cannot parse fails with [MalformedChallengeError].
	ProcessChallenge(ch Challenge) error

	// Complete reports whether the handshake needs no further rounds.
	Complete() bool

	// Authorize produces the credentials-bearing header value for req
	// (the value of Authorization or Proxy-Authorization, depending
	// on the role the challenge arrived under).
	Authorize(creds Credentials, req *http.Request) (string, error)
}

// SchemeFactory produces a fresh Scheme for a single attempt.
type SchemeFactory func() Scheme

// Credentials is the minimal contract the negotiation core needs from
// a credential. Scheme implementations may require richer concrete
// types (NTCredentials, KerberosCredentials).
type Credentials interface {
	UserName() string
	Password() string
}

// CredentialsProvider looks up credentials for an authentication
// scope. Implementations define their own matching policy; the core
// always supplies the most specific scope it knows. A nil return
// means no credentials are available for the scope.
//
// Providers are shared across all in-flight requests of a session and
// must be safe for concurrent use.
type CredentialsProvider interface {
	Credentials(scope AuthScope) Credentials
}
