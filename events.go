// SPDX-License-Identifier: Apache-2.0

package httpauth

import "log/slog"

// SkipReason explains why selection passed over a scheme.
type SkipReason int

const (
	// SkipNoChallenge - the scheme is preferred but the server did
	// not challenge for it.
	SkipNoChallenge SkipReason = iota
	// SkipUnsupportedScheme - the server challenged for a scheme with
	// no registered factory.
	SkipUnsupportedScheme
	// SkipNoCredentials - the challenge parsed but no credentials
	// exist for its scope.
	SkipNoCredentials
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoChallenge:
		return "no challenge"
	case SkipUnsupportedScheme:
		return "scheme not supported"
	case SkipNoCredentials:
		return "no credentials"
	}
	return "unknown"
}

// Events receives diagnostic callbacks from a Strategy. The
// negotiation core carries no logger of its own; an observer decides
// what, if anything, to do with the events. Implementations must be
// safe for concurrent use.
type Events interface {
	// SchemeSkipped is emitted once for each scheme passed over
	// during selection.
	SchemeSkipped(authority Authority, scheme string, reason SkipReason)

	// SelectionDisabled is emitted when selection cannot proceed at
	// all because a collaborator is missing.
	SelectionDisabled(reason string)

	// SchemeCached is emitted when a successful scheme enters the
	// session cache.
	SchemeCached(authority Authority, scheme string)

	// SchemeEvicted is emitted when a failure removes a cached
	// scheme.
	SchemeEvicted(authority Authority, scheme string)
}

type nopEvents struct{}

func (nopEvents) SchemeSkipped(Authority, string, SkipReason) {}
func (nopEvents) SelectionDisabled(string)                    {}
func (nopEvents) SchemeCached(Authority, string)              {}
func (nopEvents) SchemeEvicted(Authority, string)             {}

// NewSlogEvents returns an Events sink that logs every event to l at
// debug level.
func NewSlogEvents(l *slog.Logger) Events {
	return slogEvents{l: l}
}

type slogEvents struct {
	l *slog.Logger
}

func (e slogEvents) SchemeSkipped(authority Authority, scheme string, reason SkipReason) {
	e.l.Debug("auth scheme skipped",
		"authority", authority.String(), "scheme", scheme, "reason", reason.String())
}

func (e slogEvents) SelectionDisabled(reason string) {
	e.l.Debug("auth selection disabled", "reason", reason)
}

func (e slogEvents) SchemeCached(authority Authority, scheme string) {
	e.l.Debug("auth scheme cached", "authority", authority.String(), "scheme", scheme)
}

func (e slogEvents) SchemeEvicted(authority Authority, scheme string) {
	e.l.Debug("cached auth scheme evicted", "authority", authority.String(), "scheme", scheme)
}
