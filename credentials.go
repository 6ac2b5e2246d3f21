// SPDX-License-Identifier: Apache-2.0

package httpauth

import "sync"

// UserPassCredentials is a plain username/password pair, sufficient
// for the Basic and Digest schemes.
type UserPassCredentials struct {
	User string
	Pass string
}

func NewUserPassCredentials(user, pass string) *UserPassCredentials {
	return &UserPassCredentials{User: user, Pass: pass}
}

func (c *UserPassCredentials) UserName() string { return c.User }
func (c *UserPassCredentials) Password() string { return c.Pass }

// NTCredentials extends a username/password pair with the Windows
// domain and workstation names used by the NTLM scheme.
type NTCredentials struct {
	User        string
	Pass        string
	Domain      string
	Workstation string
}

func (c *NTCredentials) UserName() string { return c.User }
func (c *NTCredentials) Password() string { return c.Pass }

type scopedCredentials struct {
	scope AuthScope
	creds Credentials
}

// MemoryCredentialsProvider is an in-memory CredentialsProvider.
// Lookups return the stored entry whose scope matches the request
// scope most specifically (see [AuthScope.Match]); ties go to the
// earliest stored entry.
type MemoryCredentialsProvider struct {
	mu      sync.Mutex
	entries []scopedCredentials
}

func NewMemoryCredentialsProvider() *MemoryCredentialsProvider {
	return &MemoryCredentialsProvider{}
}

// Set stores creds under scope, replacing an entry with the identical
// scope.
func (p *MemoryCredentialsProvider) Set(scope AuthScope, creds Credentials) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.entries {
		if p.entries[i].scope == scope {
			p.entries[i].creds = creds
			return
		}
	}
	p.entries = append(p.entries, scopedCredentials{scope: scope, creds: creds})
}

// Credentials returns the best-matching stored credentials for scope,
// or nil when nothing matches.
func (p *MemoryCredentialsProvider) Credentials(scope AuthScope) Credentials {
	p.mu.Lock()
	defer p.mu.Unlock()

	best := -1
	var creds Credentials
	for _, e := range p.entries {
		if score := e.scope.Match(scope); score > best {
			best = score
			creds = e.creds
		}
	}
	return creds
}
