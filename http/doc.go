// SPDX-License-Identifier: Apache-2.0

/*
Package http provides a [net/http] RoundTripper and client that drive
HTTP authentication negotiation using the httpauth core and its
pluggable schemes.

	import (
		nethttp "net/http"

		httpauth "github.com/golang-auth/go-httpauth"
		ahttp "github.com/golang-auth/go-httpauth/http"
		_ "github.com/golang-auth/go-httpauth/basic"
		_ "github.com/golang-auth/go-httpauth/digest"
	)

	store := httpauth.NewMemoryCredentialsProvider()
	store.Set(
		httpauth.AuthScope{Authority: httpauth.Authority{Host: "example.com", Port: 443}},
		httpauth.NewUserPassCredentials("alice", "secret"),
	)

	client := ahttp.NewClient(nil,
		ahttp.WithCredentials(store),
		ahttp.WithPreemptive(),
	)

	resp, err := client.Get("https://example.com/protected")
	...

The transport answers a 401 by ranking the server's challenges
against the preference order (Negotiate, Kerberos, NTLM, Digest,
Basic by default), retrying the request with each eligible scheme
until one succeeds. Multi-round handshakes such as NTLM are carried
across the retries automatically. With [WithProxyAuth] the same is
done for 407 responses and Proxy-Authorization.

When no scheme can authenticate - nothing challenged for, nothing
registered, or no credentials - the original 401 or 407 response is
returned as-is, never an error.
*/
package http
