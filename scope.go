// SPDX-License-Identifier: Apache-2.0

package httpauth

import (
	"strconv"
	"strings"
)

// Authority identifies the host and port that a credential or cached
// scheme applies to. Identity is exact (host, port) equality: no
// wildcarding and no default-port normalisation happen here.
type Authority struct {
	Host string
	Port int
}

func (a Authority) String() string {
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Wildcard values for stored credential scopes. A request scope never
// uses them; the negotiation core always supplies the most specific
// scope it knows.
const (
	AnyHost   = ""
	AnyPort   = -1
	AnyRealm  = ""
	AnyScheme = ""
)

// AuthScope is the credential lookup key: the narrowest description
// of where a credential applies. Stored scopes may leave fields at
// their Any* values to match more loosely.
type AuthScope struct {
	Authority  Authority
	Realm      string
	SchemeName string
}

// Match scores how specifically the stored scope s matches the
// request scope r. A wildcard field contributes nothing; a concrete
// field must be equal and contributes its weight (host 8, port 4,
// realm 2, scheme 1). Returns -1 when the scopes do not match at all.
func (s AuthScope) Match(r AuthScope) int {
	factor := 0
	if s.SchemeName != AnyScheme {
		if !strings.EqualFold(s.SchemeName, r.SchemeName) {
			return -1
		}
		factor += 1
	}
	if s.Realm != AnyRealm {
		if s.Realm != r.Realm {
			return -1
		}
		factor += 2
	}
	if s.Authority.Port != AnyPort {
		if s.Authority.Port != r.Authority.Port {
			return -1
		}
		factor += 4
	}
	if s.Authority.Host != AnyHost {
		if !strings.EqualFold(s.Authority.Host, r.Authority.Host) {
			return -1
		}
		factor += 8
	}
	return factor
}
