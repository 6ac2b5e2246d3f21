// SPDX-License-Identifier: Apache-2.0

// Package digest implements the Digest authentication scheme, the
// qop=auth subset of RFC 7616 with the MD5, SHA-256 and -sess
// algorithm variants.
//
// Import for side effects to make the scheme available in the default
// registry.
package digest

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"net/http"
	"strings"
	"sync"

	httpauth "github.com/golang-auth/go-httpauth"
)

func init() {
	httpauth.Register(httpauth.SchemeDigest, New)
}

// Scheme is a Digest authentication handler. Unlike the single-round
// schemes it may be replayed from the session cache on later
// requests, so the nonce-count bookkeeping in Authorize is guarded by
// a mutex.
type Scheme struct {
	realm     string
	nonce     string
	opaque    string
	algorithm string
	qop       string
	stale     bool
	complete  bool

	mu     sync.Mutex
	cnonce string
	nc     uint32
}

// New returns a fresh Digest handler.
func New() httpauth.Scheme {
	return &Scheme{}
}

func (s *Scheme) Name() string { return httpauth.SchemeDigest }

func (s *Scheme) Realm() string { return s.realm }

func (s *Scheme) Complete() bool { return s.complete }

// Stale reports whether the last challenge carried stale=true,
// meaning only the nonce expired and the credentials are still good.
func (s *Scheme) Stale() bool { return s.stale }

func (s *Scheme) ProcessChallenge(ch httpauth.Challenge) error {
	name, rest := httpauth.SplitChallenge(ch.Raw)
	if !strings.EqualFold(name, "Digest") {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeDigest,
			Reason: "unexpected scheme token " + name,
		}
	}

	params := httpauth.ParseChallengeParams(rest)
	if params["realm"] == "" {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeDigest,
			Reason: "missing realm parameter",
		}
	}
	if params["nonce"] == "" {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeDigest,
			Reason: "missing nonce parameter",
		}
	}

	s.realm = params["realm"]
	s.nonce = params["nonce"]
	s.opaque = params["opaque"]
	s.stale = strings.EqualFold(params["stale"], "true")

	s.algorithm = params["algorithm"]
	if s.algorithm == "" {
		s.algorithm = "MD5"
	}

	// Of the offered qop values only auth is supported; auth-int
	// requires hashing the body, which the handler never sees.
	s.qop = ""
	for _, v := range strings.Split(params["qop"], ",") {
		if strings.EqualFold(strings.TrimSpace(v), "auth") {
			s.qop = "auth"
			break
		}
	}
	if params["qop"] != "" && s.qop == "" {
		return &httpauth.MalformedChallengeError{
			Scheme: httpauth.SchemeDigest,
			Reason: "none of the qop values " + params["qop"] + " are supported",
		}
	}

	// A fresh nonce restarts the count.
	s.mu.Lock()
	s.nc = 0
	s.cnonce = ""
	s.mu.Unlock()

	s.complete = true
	return nil
}

func (s *Scheme) newHash() (func() hash.Hash, bool, error) {
	switch strings.ToLower(strings.TrimSuffix(s.algorithm, "-sess")) {
	case "md5":
		return md5.New, strings.HasSuffix(strings.ToLower(s.algorithm), "-sess"), nil
	case "sha-256":
		return sha256.New, strings.HasSuffix(strings.ToLower(s.algorithm), "-sess"), nil
	}
	return nil, false, fmt.Errorf("digest: unsupported algorithm %q", s.algorithm)
}

func kd(newHash func() hash.Hash, parts ...string) string {
	h := newHash()
	h.Write([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h.Sum(nil))
}

func newCnonce() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *Scheme) Authorize(creds httpauth.Credentials, req *http.Request) (string, error) {
	if !s.complete {
		return "", fmt.Errorf("digest: no challenge processed")
	}
	newHash, sess, err := s.newHash()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.cnonce == "" {
		s.cnonce, err = newCnonce()
		if err != nil {
			s.mu.Unlock()
			return "", err
		}
	}
	cnonce := s.cnonce
	s.nc++
	nc := fmt.Sprintf("%08x", s.nc)
	s.mu.Unlock()

	uri := req.URL.RequestURI()

	a1 := kd(newHash, creds.UserName(), s.realm, creds.Password())
	if sess {
		a1 = kd(newHash, a1, s.nonce, cnonce)
	}
	a2 := kd(newHash, req.Method, uri)

	var response string
	if s.qop == "auth" {
		response = kd(newHash, a1, s.nonce, nc, cnonce, s.qop, a2)
	} else {
		response = kd(newHash, a1, s.nonce, a2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username=%q, realm=%q, nonce=%q, uri=%q, response=%q`,
		creds.UserName(), s.realm, s.nonce, uri, response)
	fmt.Fprintf(&b, `, algorithm=%s`, s.algorithm)
	if s.qop == "auth" {
		fmt.Fprintf(&b, `, qop=auth, nc=%s, cnonce=%q`, nc, cnonce)
	}
	if s.opaque != "" {
		fmt.Fprintf(&b, `, opaque=%q`, s.opaque)
	}
	return b.String(), nil
}
