// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/server/src/authority/authority_object.rs
// (ZoneType, Nsec3QueryInfo), original_source/_INDEX.md-listed dnssec config
// (NxProofKind).
//

package authority

import "github.com/tamaskb/duskdns/dnsmsg"

// ZoneType identifies how an authority sources the records it serves.
type ZoneType int

const (
	// ZoneTypePrimary means the authority owns the zone's records directly.
	ZoneTypePrimary ZoneType = iota

	// ZoneTypeSecondary means the authority receives the zone via AXFR/IXFR
	// from a primary.
	ZoneTypeSecondary

	// ZoneTypeExternal means the authority forwards or mirrors the zone
	// from a non-DNS source.
	ZoneTypeExternal

	// ZoneTypeHint means the authority only holds root/priming hints
	// used to bootstrap resolution, never answered authoritatively.
	ZoneTypeHint

	// ZoneTypeForward means the authority forwards queries to another
	// resolver rather than answering from its own records.
	ZoneTypeForward
)

// String returns a human-readable zone type name.
func (z ZoneType) String() string {
	switch z {
	case ZoneTypePrimary:
		return "primary"
	case ZoneTypeSecondary:
		return "secondary"
	case ZoneTypeExternal:
		return "external"
	case ZoneTypeHint:
		return "hint"
	case ZoneTypeForward:
		return "forward"
	default:
		return "unknown"
	}
}

// NxProofAlgorithm selects the denial-of-existence mechanism a zone uses.
type NxProofAlgorithm int

const (
	// NxProofNSEC means the zone proves non-existence with NSEC records
	// (RFC 4035).
	NxProofNSEC NxProofAlgorithm = iota

	// NxProofNSEC3 means the zone proves non-existence with NSEC3 records
	// (RFC 5155), using hashed owner names.
	NxProofNSEC3
)

// NxProofKind describes which denial-of-existence mechanism a zone uses,
// and the parameters needed to reproduce its hash chain when it is NSEC3.
type NxProofKind struct {
	// Algorithm selects NSEC or NSEC3.
	Algorithm NxProofAlgorithm

	// Nsec3Params is set iff Algorithm is [NxProofNSEC3].
	Nsec3Params Nsec3Params
}

// Nsec3Params are the hash parameters from a zone's NSEC3PARAM record
// (RFC 5155 §4).
type Nsec3Params struct {
	// HashAlgorithm is the NSEC3 hash algorithm (1 = SHA-1, per RFC 5155).
	HashAlgorithm uint8

	// Iterations is the additional number of times the hash is applied.
	Iterations uint16

	// Salt is appended to the name before each hash iteration.
	Salt []byte
}

// Nsec3QueryInfo carries the inputs [AuthorityObject.GetNSEC3Records] needs
// to locate the covering (and, for a positive wildcard match, matching)
// NSEC3 record for a query (RFC 5155 §8).
type Nsec3QueryInfo struct {
	// QName is the name being proven not to exist (or covered by a
	// wildcard).
	QName dnsmsg.LowerName

	// QType is the query type that triggered the proof.
	QType dnsmsg.RecordType

	// Answerable reports whether the zone itself could have answered
	// QName/QType directly, which affects whether an additional
	// wildcard-covering NSEC3 is required alongside the closest-encloser
	// proof.
	Answerable bool
}

// UpdateResult is the outcome of [AuthorityObject.Update]: either the
// update's applied value, or an error describing which RFC 2136 step
// failed. Modeled as a value type rather than a panic, since a failed
// prerequisite or a malformed update is routine client input, not a bug.
type UpdateResult[T any] struct {
	value T
	err   error
}

// UpdateOk wraps a successful update result.
func UpdateOk[T any](value T) UpdateResult[T] {
	return UpdateResult[T]{value: value}
}

// UpdateErr wraps a failed update result.
func UpdateErr[T any](err error) UpdateResult[T] {
	return UpdateResult[T]{err: err}
}

// Unwrap returns the update's value and error.
func (r UpdateResult[T]) Unwrap() (T, error) {
	return r.value, r.err
}
