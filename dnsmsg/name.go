// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/minest query.go (IDNA handling)
// Grounded on: original_source/crates/server/src/authority/authority_object.rs (LowerName)
//

package dnsmsg

import (
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// MaxLabelLength is the maximum length, in bytes, of a single DNS label.
const MaxLabelLength = 63

// MaxNameLength is the maximum length, in bytes, of a fully-qualified name.
const MaxNameLength = 255

// LowerName is a DNS name canonicalized to fully-qualified, lower-case,
// wire-comparable form.
//
// The zero value is not valid; construct using [NewLowerName].
type LowerName struct {
	// fqdn is the canonical, ASCII, lower-case, fully-qualified name.
	fqdn string
}

// NewLowerName canonicalizes name (performing IDNA puny-encoding of any
// non-ASCII label) and returns the resulting [LowerName].
func NewLowerName(name string) (LowerName, error) {
	puny, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return LowerName{}, err
	}
	if !dns.IsFqdn(puny) {
		puny = dns.Fqdn(puny)
	}
	if len(puny) > MaxNameLength {
		return LowerName{}, ErrNameTooLong
	}
	for _, label := range dns.SplitDomainName(puny) {
		if len(label) > MaxLabelLength {
			return LowerName{}, ErrLabelTooLong
		}
	}
	return LowerName{fqdn: strings.ToLower(puny)}, nil
}

// MustLowerName is like [NewLowerName] but panics on error.
//
// Use only with compile-time-constant names (e.g. zone origins in tests
// and static configuration).
func MustLowerName(name string) LowerName {
	n, err := NewLowerName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the canonical fully-qualified, lower-case name.
func (n LowerName) String() string {
	return n.fqdn
}

// IsRoot reports whether n is the DNS root.
func (n LowerName) IsRoot() bool {
	return n.fqdn == "."
}

// Equal reports whether n and other are byte-wise equal in canonical form.
func (n LowerName) Equal(other LowerName) bool {
	return n.fqdn == other.fqdn
}

// IsSubdomainOf reports whether n is equal to or a subdomain of origin,
// i.e. whether origin is a suffix of n in label terms.
func (n LowerName) IsSubdomainOf(origin LowerName) bool {
	return dns.IsSubDomain(origin.fqdn, n.fqdn)
}

// Less reports whether n sorts before other under RFC 4034 section 6.1
// canonical DNS name ordering (label-wise, right to left, case-insensitive
// byte comparison, with a shorter common prefix sorting first). Callers use
// this to find the NSEC owner whose interval covers a missing name.
func (n LowerName) Less(other LowerName) bool {
	a := dns.SplitDomainName(n.fqdn)
	b := dns.SplitDomainName(other.fqdn)
	for i := 1; i <= len(a) && i <= len(b); i++ {
		la, lb := a[len(a)-i], b[len(b)-i]
		if c := strings.Compare(la, lb); c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}
