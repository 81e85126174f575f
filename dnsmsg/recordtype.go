// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/server/src/authority/authority_object.rs
// (RecordType::ANY / RecordType::AXFR lookup semantics documented there).
//

package dnsmsg

import "github.com/miekg/dns"

// RecordType is a DNS resource record type, or one of the pseudo-types
// (ANY, AXFR) that only make sense as a query type.
type RecordType = uint16

// Record types the lookup semantics refer to, including the query-only
// pseudo-types ANY and AXFR, named for readability at call sites.
// These re-export the corresponding [dns] package constants: there is no
// new wire format here, only naming for the lookup semantics in the
// specification.
const (
	TypeANY  = dns.TypeANY
	TypeAXFR = dns.TypeAXFR
	TypeSOA  = dns.TypeSOA
	TypeNS   = dns.TypeNS
	TypeNSEC = dns.TypeNSEC
	// TypeNSEC3 is the NSEC3 record type (RFC 5155).
	TypeNSEC3 = dns.TypeNSEC3
	TypeRRSIG = dns.TypeRRSIG
)

// IsANY reports whether rtype is the ANY pseudo-type, which matches every
// record stored under a name regardless of its concrete type.
func IsANY(rtype RecordType) bool {
	return rtype == TypeANY
}

// IsAXFR reports whether rtype is the AXFR pseudo-type, which selects every
// record in a zone except the apex SOA (callers bracket the transfer with a
// leading and trailing SOA themselves, per RFC 5936).
func IsAXFR(rtype RecordType) bool {
	return rtype == TypeAXFR
}

// IsSOA reports whether rtype is SOA.
func IsSOA(rtype RecordType) bool {
	return rtype == TypeSOA
}

// MatchesStored reports whether a stored record of kind stored satisfies a
// lookup for rtype, honoring the ANY wildcard.
func MatchesStored(rtype, stored RecordType) bool {
	return IsANY(rtype) || rtype == stored
}
