// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/server/src/authority/authority_object.rs
//

package authority

import (
	"context"

	"github.com/miekg/dns"

	"github.com/tamaskb/duskdns/dnsmsg"
)

// AuthorityObject is an object-safe view over a zone backend: every method
// a server's query pipeline needs to answer a request, independent of the
// concrete storage behind it. Every Go interface is already object-safe —
// there is no `dyn`-safety restriction to work around here, unlike the
// Rust trait this interface is modeled on.
type AuthorityObject interface {
	// ZoneType reports what kind of zone this is (primary, secondary,
	// external, ...).
	ZoneType() ZoneType

	// IsAXFRAllowed reports whether full zone transfers are permitted.
	IsAXFRAllowed() bool

	// CanValidateDNSSEC reports whether this authority can perform DNSSEC
	// validation of its own answers.
	CanValidateDNSSEC() bool

	// Origin returns the zone's apex name, e.g. "example.com." is the
	// origin for "www.example.com.".
	Origin() dnsmsg.LowerName

	// NxProofKind reports the non-existence proof mechanism (NSEC or
	// NSEC3) this zone uses, if any.
	NxProofKind() (NxProofKind, bool)

	// Lookup finds every record at name matching rtype. [dnsmsg.TypeANY]
	// matches every type stored under name; [dnsmsg.TypeAXFR] matches
	// every record in the zone except the apex SOA, since AXFR responses
	// bracket the transfer with a leading and trailing SOA themselves.
	Lookup(ctx context.Context, name dnsmsg.LowerName, rtype dnsmsg.RecordType, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// Search performs a full query-pipeline lookup, including CNAME
	// chasing and, when opts.DNSSECOk and the name does not exist,
	// returning non-existence proof records instead of an empty result.
	Search(ctx context.Context, name dnsmsg.LowerName, rtype dnsmsg.RecordType, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// NS returns the zone's NS records at its origin.
	NS(ctx context.Context, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// SOA returns only the zone's SOA record, with default lookup options.
	SOA(ctx context.Context) LookupControlFlow[LookupObject]

	// SOASecure is like [AuthorityObject.SOA] but honors opts, e.g. to
	// include RRSIGs.
	SOASecure(ctx context.Context, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// GetNSECRecords returns the NSEC record whose owner is the
	// canonical predecessor of name, proving name's non-existence.
	GetNSECRecords(ctx context.Context, name dnsmsg.LowerName, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// GetNSEC3Records returns the NSEC3 records covering and, if present,
	// matching the hashed owner name described by info.
	GetNSEC3Records(ctx context.Context, info Nsec3QueryInfo, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject]

	// Update applies a dynamic update (RFC 2136) after checking its
	// prerequisite section.
	Update(ctx context.Context, update *dns.Msg) UpdateResult[bool]
}

// DnssecSummary reports the DNSSEC validation status of an answer.
type DnssecSummary int

const (
	// DnssecInsecure means the zone is not DNSSEC-signed, or validation
	// was never attempted ("island of security"). This is the default.
	DnssecInsecure DnssecSummary = iota

	// DnssecSecure means every record has been DNSSEC-validated.
	DnssecSecure

	// DnssecBogus means at least one record failed DNSSEC validation.
	DnssecBogus
)

// Combine merges two [DnssecSummary] values from records contributing to
// the same answer: Bogus dominates everything, Secure only holds if both
// sides are Secure, and Insecure is the default otherwise.
func (s DnssecSummary) Combine(other DnssecSummary) DnssecSummary {
	if s == DnssecBogus || other == DnssecBogus {
		return DnssecBogus
	}
	if s == DnssecSecure && other == DnssecSecure {
		return DnssecSecure
	}
	return DnssecInsecure
}

// LookupObject is an object-safe view over the result of a single lookup
// step.
type LookupObject interface {
	// IsEmpty reports whether this lookup carries no records.
	IsEmpty() bool

	// Records returns the records this lookup carries.
	Records() []dns.RR

	// TakeAdditionals returns an additional set of records to accompany
	// this lookup (e.g. the A/AAAA glue for a CNAME target), and whether
	// any were present. It is acceptable for this to report false after
	// the first call.
	TakeAdditionals() (LookupObject, bool)

	// DNSSECSummary reports the DNSSEC validation status of the records
	// in this lookup. Defaults to [DnssecInsecure].
	DNSSECSummary() DnssecSummary
}

// EmptyLookup is a [LookupObject] that carries no records.
type EmptyLookup struct{}

// IsEmpty implements [LookupObject].
func (EmptyLookup) IsEmpty() bool { return true }

// Records implements [LookupObject].
func (EmptyLookup) Records() []dns.RR { return nil }

// TakeAdditionals implements [LookupObject].
func (EmptyLookup) TakeAdditionals() (LookupObject, bool) { return nil, false }

// DNSSECSummary implements [LookupObject].
func (EmptyLookup) DNSSECSummary() DnssecSummary { return DnssecInsecure }
