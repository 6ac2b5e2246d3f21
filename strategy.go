// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"net/http"
	"strings"
)

// Canonical scheme names. "negotiate" is SPNEGO's HTTP scheme token.
const (
	SchemeBasic     = "basic"
	SchemeDigest    = "digest"
	SchemeNTLM      = "ntlm"
	SchemeNegotiate = "negotiate"
	SchemeKerberos  = "kerberos"
)

// DefaultSchemePriority orders schemes strongest first: schemes that
// avoid sending reusable secrets over the wire are preferred, and a
// single-round scheme is only chosen when no stronger scheme was
// challenged.
var DefaultSchemePriority = []string{
	SchemeNegotiate,
	SchemeKerberos,
	SchemeNTLM,
	SchemeDigest,
	SchemeBasic,
}

// AuthOption pairs an initialised scheme with the credentials to feed
// it. Selection produces an ordered candidate list of options; the
// caller attempts them in order and stops at the first success, so a
// stale-credential failure in one scheme falls back to the next
// without re-running selection.
type AuthOption struct {
	Scheme      Scheme
	Credentials Credentials
}

// Strategy drives authentication negotiation for one role within one
// session. The target role answers 401 responses carrying
// WWW-Authenticate challenges; the proxy role answers 407 responses
// carrying Proxy-Authenticate challenges. The role is fixed at
// construction, never inferred from a response.
//
// A Strategy is safe for concurrent use when its collaborators are.
type Strategy struct {
	challengeCode   int
	challengeHeader string
	authzHeader     string

	registry *Registry
	creds    CredentialsProvider
	cache    *Cache
	prefs    []string
	events   Events
}

// StrategyOption configures a Strategy.
type StrategyOption func(*Strategy)

// WithRegistry configures the scheme registry to select from. Without
// one, selection always yields an empty candidate list.
func WithRegistry(r *Registry) StrategyOption {
	return func(s *Strategy) {
		s.registry = r
	}
}

// WithCredentials configures the credentials provider. Without one,
// selection always yields an empty candidate list.
func WithCredentials(p CredentialsProvider) StrategyOption {
	return func(s *Strategy) {
		s.creds = p
	}
}

// WithPreferredSchemes overrides [DefaultSchemePriority] for this
// strategy. Preference order decides between schemes the server
// offered; a preferred scheme the server did not challenge for is
// never attempted.
func WithPreferredSchemes(names ...string) StrategyOption {
	return func(s *Strategy) {
		s.prefs = names
	}
}

// WithCache shares an existing session cache, for example between the
// target and proxy strategies of one client. By default each strategy
// owns a fresh cache.
func WithCache(c *Cache) StrategyOption {
	return func(s *Strategy) {
		s.cache = c
	}
}

// WithEvents configures a diagnostic observer. The default discards
// all events; [NewSlogEvents] adapts a *slog.Logger.
func WithEvents(e Events) StrategyOption {
	return func(s *Strategy) {
		s.events = e
	}
}

// NewTargetStrategy returns a Strategy for origin-server
// authentication: 401, WWW-Authenticate, Authorization.
func NewTargetStrategy(opts ...StrategyOption) *Strategy {
	return newStrategy(http.StatusUnauthorized, "WWW-Authenticate", "Authorization", opts)
}

// NewProxyStrategy returns a Strategy for proxy authentication: 407,
// Proxy-Authenticate, Proxy-Authorization.
func NewProxyStrategy(opts ...StrategyOption) *Strategy {
	return newStrategy(http.StatusProxyAuthRequired, "Proxy-Authenticate", "Proxy-Authorization", opts)
}

func newStrategy(code int, challengeHeader, authzHeader string, opts []StrategyOption) *Strategy {
	s := &Strategy{
		challengeCode:   code,
		challengeHeader: challengeHeader,
		authzHeader:     authzHeader,
		events:          nopEvents{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewCache()
	}
	return s
}

// ChallengeCode returns the status code this role treats as a
// challenge.
func (s *Strategy) ChallengeCode() int { return s.challengeCode }

// ChallengeHeader returns the response header this role scans for
// challenges.
func (s *Strategy) ChallengeHeader() string { return s.challengeHeader }

// AuthorizationHeader returns the request header this role answers
// challenges with.
func (s *Strategy) AuthorizationHeader() string { return s.authzHeader }

// IsChallenge reports whether status is this role's challenge status.
// The check is status equality only: a misconfigured server that
// attaches challenge headers to a 200 is never treated as a
// challenge.
func (s *Strategy) IsChallenge(status int) bool {
	return status == s.challengeCode
}

// ParseChallenges extracts this role's challenges from the response
// headers h, one ChallengeSet entry per distinct scheme name. It
// fails with [MalformedChallengeError] when a challenge header has no
// value.
func (s *Strategy) ParseChallenges(h http.Header) (ChallengeSet, error) {
	return parseChallengeHeaders(h.Values(s.challengeHeader))
}

// Select builds the ordered candidate list for one challenge
// response. The preference order wins over challenge order: each
// preferred scheme is kept only when the server challenged for it, a
// factory is registered, and credentials exist for the scope derived
// from the processed challenge. A challenge the scheme handler cannot
// parse aborts the whole selection with [MalformedChallengeError];
// every other gap merely skips that scheme.
//
// An empty result means authentication cannot proceed and the caller
// must surface the original unauthenticated response.
func (s *Strategy) Select(challenges ChallengeSet, authority Authority) ([]AuthOption, error) {
	if s.registry == nil {
		s.events.SelectionDisabled("no scheme registry configured")
		return nil, nil
	}
	if s.creds == nil {
		s.events.SelectionDisabled("no credentials provider configured")
		return nil, nil
	}

	prefs := s.prefs
	if len(prefs) == 0 {
		prefs = DefaultSchemePriority
	}

	var options []AuthOption
	for _, name := range prefs {
		name = strings.ToLower(name)

		challenge, ok := challenges[name]
		if !ok {
			s.events.SchemeSkipped(authority, name, SkipNoChallenge)
			continue
		}

		factory := s.registry.Lookup(name)
		if factory == nil {
			s.events.SchemeSkipped(authority, name, SkipUnsupportedScheme)
			continue
		}

		scheme := factory()
		if err := scheme.ProcessChallenge(challenge); err != nil {
			return nil, err
		}

		scope := AuthScope{
			Authority:  authority,
			Realm:      scheme.Realm(),
			SchemeName: scheme.Name(),
		}
		creds := s.creds.Credentials(scope)
		if creds == nil {
			s.events.SchemeSkipped(authority, name, SkipNoCredentials)
			continue
		}

		options = append(options, AuthOption{Scheme: scheme, Credentials: creds})
	}
	return options, nil
}

// OnSuccess records a successful authentication. Cacheable schemes
// enter the session cache for preemptive reuse; handshake schemes are
// dropped, their state is bound to the connection they ran on.
func (s *Strategy) OnSuccess(authority Authority, scheme Scheme) {
	if !Cacheable(scheme) {
		return
	}
	s.cache.Put(authority, scheme)
	s.events.SchemeCached(authority, scheme.Name())
}

// OnFailure evicts any scheme cached for authority, guaranteeing a
// rejected scheme is never replayed. Unknown authorities are a no-op.
func (s *Strategy) OnFailure(authority Authority) {
	if removed := s.cache.Remove(authority); removed != nil {
		s.events.SchemeEvicted(authority, removed.Name())
	}
}

// Cached returns the scheme cached for authority, or nil. Callers use
// it to authenticate preemptively, before any challenge is received.
func (s *Strategy) Cached(authority Authority) Scheme {
	return s.cache.Get(authority)
}

// Cacheable reports whether a scheme may be replayed preemptively on
// later requests. Only completed Basic and Digest handlers qualify:
// handshake schemes such as NTLM and Negotiate carry per-connection
// state that cannot be replayed on a different connection.
func Cacheable(s Scheme) bool {
	if s == nil || !s.Complete() {
		return false
	}
	switch strings.ToLower(s.Name()) {
	case SchemeBasic, SchemeDigest:
		return true
	}
	return false
}
