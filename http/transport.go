// SPDX-License-Identifier: Apache-2.0

package http

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpauth "github.com/golang-auth/go-httpauth"
)

// maxRounds caps the number of server round trips spent on
// authentication within one logical request, covering multi-round
// handshakes plus fallback across schemes.
const maxRounds = 8

// drainLimit bounds how much of a challenge response body is read
// before the connection is reused for the next attempt.
const drainLimit = 256 << 10

// Transport is a [http.RoundTripper] that answers authentication
// challenges using the negotiation core: it parses the challenges of
// a 401 (and optionally 407), selects candidate schemes in preference
// order, and retries the request with each candidate until one
// succeeds. Successful cacheable schemes are replayed preemptively on
// later requests to the same authority when enabled.
//
// A plain unauthenticated response is never an error: when no
// candidate can authenticate, the original challenge response is
// returned to the caller.
type Transport struct {
	transport  http.RoundTripper
	target     *httpauth.Strategy
	proxy      *httpauth.Strategy
	creds      httpauth.CredentialsProvider
	preemptive bool

	// construction-time settings consumed by NewTransport
	registry  *httpauth.Registry
	prefs     []string
	events    httpauth.Events
	proxyAuth bool
}

// Option configures a Transport.
type Option func(*Transport)

// WithCredentials configures the credentials provider. Without one
// the transport never authenticates.
func WithCredentials(p httpauth.CredentialsProvider) Option {
	return func(t *Transport) {
		t.creds = p
	}
}

// WithRegistry overrides the scheme registry; the default is
// [httpauth.DefaultRegistry].
func WithRegistry(r *httpauth.Registry) Option {
	return func(t *Transport) {
		t.registry = r
	}
}

// WithPreferredSchemes overrides the scheme preference order.
func WithPreferredSchemes(names ...string) Option {
	return func(t *Transport) {
		t.prefs = names
	}
}

// WithEvents configures the diagnostic observer passed to the
// strategies.
func WithEvents(e httpauth.Events) Option {
	return func(t *Transport) {
		t.events = e
	}
}

// WithProxyAuth additionally answers 407 challenges with
// Proxy-Authorization. The proxy strategy shares the credentials
// provider and preference order of the target strategy.
func WithProxyAuth() Option {
	return func(t *Transport) {
		t.proxyAuth = true
	}
}

// WithPreemptive sends the cached scheme's authorization on requests
// before any challenge is received.
func WithPreemptive() Option {
	return func(t *Transport) {
		t.preemptive = true
	}
}

// WithRoundTripper configures the wrapped round tripper; the default
// is [http.DefaultTransport].
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.transport = rt
	}
}

// WithStrategies supplies fully built strategies, bypassing the
// registry/preference options. proxy may be nil.
func WithStrategies(target, proxy *httpauth.Strategy) Option {
	return func(t *Transport) {
		t.target = target
		t.proxy = proxy
	}
}

// NewTransport creates an authenticating transport.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		transport: http.DefaultTransport,
		registry:  httpauth.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.target == nil {
		common := []httpauth.StrategyOption{
			httpauth.WithRegistry(t.registry),
			httpauth.WithCredentials(t.creds),
		}
		if len(t.prefs) > 0 {
			common = append(common, httpauth.WithPreferredSchemes(t.prefs...))
		}
		if t.events != nil {
			common = append(common, httpauth.WithEvents(t.events))
		}
		t.target = httpauth.NewTargetStrategy(common...)
		if t.proxyAuth {
			t.proxy = httpauth.NewProxyStrategy(common...)
		}
	}
	return t
}

// NewClient returns a [http.Client] using an authenticating
// Transport. If client is non-nil it is copied and its round tripper
// wrapped; otherwise the default client is used.
func NewClient(client *http.Client, opts ...Option) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	if client.Transport != nil {
		opts = append(opts, WithRoundTripper(client.Transport))
	}

	newClient := *client
	newClient.Transport = NewTransport(opts...)
	return &newClient
}

// RoundTrip implements [http.RoundTripper], running as many server
// round trips as the negotiation needs.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// The contract forbids mutating the caller's request.
	req = req.Clone(req.Context())
	targetAuthority := authorityOf(req.URL)

	if t.preemptive {
		t.preauth(req, targetAuthority)
	}

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	var (
		strategy  *httpauth.Strategy
		authority httpauth.Authority
		options   []httpauth.AuthOption
		current   *httpauth.AuthOption
	)

	for round := 0; round < maxRounds; round++ {
		s := t.challengedStrategy(resp.StatusCode)
		if s == nil {
			// Not a challenge: the current attempt, if any, worked.
			if current != nil {
				strategy.OnSuccess(authority, current.Scheme)
			}
			return resp, nil
		}

		challenges, err := s.ParseChallenges(resp.Header)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}

		switch {
		case current != nil && s == strategy && !current.Scheme.Complete():
			// Mid-handshake: feed the follow-up challenge to the same
			// scheme instance.
			ch, ok := challenges[strings.ToLower(current.Scheme.Name())]
			if !ok {
				strategy.OnFailure(authority)
				current = nil
			} else if err := current.Scheme.ProcessChallenge(ch); err != nil {
				resp.Body.Close()
				return nil, err
			}
		case current != nil:
			// A completed attempt was re-challenged: rejected.
			strategy.OnFailure(authority)
			current = nil
		}

		if current == nil {
			if s != strategy {
				strategy = s
				authority = targetAuthority
				if s == t.proxy {
					authority = t.proxyAuthority(req)
				}
				options, err = s.Select(challenges, authority)
				if err != nil {
					resp.Body.Close()
					return nil, err
				}
			}
			if len(options) == 0 {
				return resp, nil
			}
			current = &options[0]
			options = options[1:]
		}

		value, err := current.Scheme.Authorize(current.Credentials, req)
		if err != nil {
			// This candidate cannot produce a token; move on.
			current = nil
			continue
		}

		if !rewindBody(req) {
			return resp, nil
		}
		drain(resp)

		req.Header.Set(strategy.AuthorizationHeader(), value)
		resp, err = t.transport.RoundTrip(req)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// preauth applies the cached scheme for authority, when one exists
// and credentials are still available for its scope.
func (t *Transport) preauth(req *http.Request, authority httpauth.Authority) {
	scheme := t.target.Cached(authority)
	if scheme == nil || t.creds == nil {
		return
	}
	scope := httpauth.AuthScope{
		Authority:  authority,
		Realm:      scheme.Realm(),
		SchemeName: scheme.Name(),
	}
	creds := t.creds.Credentials(scope)
	if creds == nil {
		return
	}
	if value, err := scheme.Authorize(creds, req); err == nil {
		req.Header.Set(t.target.AuthorizationHeader(), value)
	}
}

func (t *Transport) challengedStrategy(status int) *httpauth.Strategy {
	if t.proxy != nil && t.proxy.IsChallenge(status) {
		return t.proxy
	}
	if t.target.IsChallenge(status) {
		return t.target
	}
	return nil
}

// proxyAuthority resolves the authority of the proxy serving req,
// falling back to the request authority when the wrapped transport
// does not expose its proxy configuration.
func (t *Transport) proxyAuthority(req *http.Request) httpauth.Authority {
	if ht, ok := t.transport.(*http.Transport); ok && ht.Proxy != nil {
		if u, err := ht.Proxy(req); err == nil && u != nil {
			return authorityOf(u)
		}
	}
	return authorityOf(req.URL)
}

func authorityOf(u *url.URL) httpauth.Authority {
	a := httpauth.Authority{Host: u.Hostname()}
	if port := u.Port(); port != "" {
		a.Port, _ = strconv.Atoi(port)
	} else if u.Scheme == "https" {
		a.Port = 443
	} else {
		a.Port = 80
	}
	return a
}

// rewindBody restores a consumed request body before a retry. A
// one-shot body that cannot be rewound ends the negotiation.
func rewindBody(req *http.Request) bool {
	if req.Body == nil || req.Body == http.NoBody {
		return true
	}
	if req.GetBody == nil {
		return false
	}
	body, err := req.GetBody()
	if err != nil {
		return false
	}
	req.Body = body
	return true
}

// drain consumes a challenge response so its connection can carry the
// retried request.
func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit)) //nolint:errcheck
	resp.Body.Close()
}
