// SPDX-License-Identifier: Apache-2.0

/*
Package httpauth implements the authentication negotiation core of an
HTTP client: challenge detection, challenge parsing, scheme selection
and the per-authority cache that enables preemptive authentication.

The package deals in capabilities, not cryptography. A [Scheme] is a
pluggable, single-attempt handler produced by a factory looked up in a
[Registry]; the concrete handlers live in the basic, digest, ntlm and
negotiate subpackages and register themselves when imported:

	import (
		"github.com/golang-auth/go-httpauth"
		_ "github.com/golang-auth/go-httpauth/basic"
		_ "github.com/golang-auth/go-httpauth/digest"
	)

	strategy := httpauth.NewTargetStrategy(
		httpauth.WithRegistry(httpauth.DefaultRegistry()),
		httpauth.WithCredentials(store),
	)

A [Strategy] answers one authentication role: the target role reacts
to 401 responses carrying WWW-Authenticate challenges, the proxy role
to 407 responses carrying Proxy-Authenticate challenges. Selection
walks a preference order (strongest scheme first), keeping only the
schemes the server challenged for and for which credentials exist, and
yields an ordered candidate list of [AuthOption] values. Callers
attempt the options in order and report the outcome back through
[Strategy.OnSuccess] and [Strategy.OnFailure], which maintain the
session [Cache] used for preemptive authentication.

Most callers will not drive a Strategy by hand: the http subpackage
provides a [net/http] RoundTripper that runs the whole loop.
*/
package httpauth
