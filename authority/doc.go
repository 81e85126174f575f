// SPDX-License-Identifier: GPL-3.0-or-later

// Package authority defines an object-safe surface for zone backends to
// answer lookups, zone transfers, and dynamic updates, plus a reference
// in-memory implementation.
//
// [AuthorityObject] is the interface a query pipeline consults; every
// lookup method returns a [LookupControlFlow] so a chain of authorities
// can decide to keep trying the next one ([Continue]), stop
// ([Break]), or defer entirely ([Skip]). [MapDyn] boxes a backend's
// concrete [LookupObject] implementation behind the interface without
// losing that control-flow information.
//
// [MemoryAuthority] is a small, read-mostly zone store meant to exercise
// the surface end to end — ANY/AXFR/SOA lookups, NSEC and NSEC3
// non-existence proofs, and RFC 2136 dynamic updates — not a production
// zone database.
package authority
