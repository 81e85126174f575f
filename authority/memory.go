// SPDX-License-Identifier: GPL-3.0-or-later
//
// Supplemented per SPEC_FULL.md §10: the specification and the Rust
// original both describe the AuthorityObject surface without shipping a
// reference backend in this file's scope, so this adapts the storage and
// locking shape from github.com/bassosimone/minest's Resolver/Client
// (a slice of collaborators guarded by straightforward field access) into
// a single in-memory zone keyed by owner name, guarded by a
// sync.RWMutex per spec.md §3's "mutation must be serialized internally".
//

package authority

import (
	"context"
	"sort"
	"sync"

	"github.com/miekg/dns"

	"github.com/tamaskb/duskdns/dnsmsg"
)

// MemoryAuthority is a read-mostly, in-memory [AuthorityObject] backend: a
// single zone's records held in a map built at construction time (and
// mutated under lock via [*MemoryAuthority.Update]). It is meant as a
// reference implementation to exercise the authority surface end to end,
// not a production zone store.
//
// Construct with [NewMemoryAuthority].
type MemoryAuthority struct {
	origin    dnsmsg.LowerName
	zoneType  ZoneType
	allowAXFR bool
	nxProof   *NxProofKind

	mu          sync.RWMutex
	byName      map[string][]dns.RR  // canonical owner name -> records
	names       []dnsmsg.LowerName   // every owner name, sorted canonically
	hashToOwner map[string]string    // NSEC3 hash -> canonical owner name
	hashes      []string             // sorted NSEC3 hashes, parallel index into hashToOwner
}

// MemoryAuthorityOption configures a [MemoryAuthority] at construction.
type MemoryAuthorityOption func(*MemoryAuthority)

// WithAXFRAllowed controls whether [*MemoryAuthority.IsAXFRAllowed] reports
// true. Default is false.
func WithAXFRAllowed(allowed bool) MemoryAuthorityOption {
	return func(a *MemoryAuthority) { a.allowAXFR = allowed }
}

// WithNxProofKind configures the zone's denial-of-existence mechanism. When
// kind selects NSEC3, [NewMemoryAuthority] precomputes the hash chain for
// every owner name using kind.Nsec3Params.
func WithNxProofKind(kind NxProofKind) MemoryAuthorityOption {
	return func(a *MemoryAuthority) { a.nxProof = &kind }
}

// NewMemoryAuthority builds a [*MemoryAuthority] for origin, serving
// records. Any record whose owner is not origin or one of its subdomains
// is dropped rather than loaded, enforcing the "origin is a suffix of
// every owned name" invariant at construction time.
func NewMemoryAuthority(origin dnsmsg.LowerName, zoneType ZoneType, records []dns.RR, opts ...MemoryAuthorityOption) *MemoryAuthority {
	a := &MemoryAuthority{
		origin:   origin,
		zoneType: zoneType,
		byName:   make(map[string][]dns.RR),
	}
	for _, opt := range opts {
		opt(a)
	}

	seen := make(map[string]bool)
	for _, rr := range records {
		owner := dns.CanonicalName(rr.Header().Name)
		ln, err := dnsmsg.NewLowerName(owner)
		if err != nil || !ln.IsSubdomainOf(origin) {
			// spec.md §3: origin must be a suffix of every owned name.
			// Records outside the zone have no home here; drop them
			// rather than let an out-of-zone name corrupt NSEC/NSEC3
			// ordering or AXFR output.
			continue
		}
		a.byName[owner] = append(a.byName[owner], rr)
		if !seen[owner] {
			seen[owner] = true
			a.names = append(a.names, ln)
		}
	}
	sort.Slice(a.names, func(i, j int) bool { return a.names[i].Less(a.names[j]) })

	if a.nxProof != nil && a.nxProof.Algorithm == NxProofNSEC3 {
		a.hashToOwner = make(map[string]string, len(a.names))
		for _, ln := range a.names {
			hash := hashNSEC3Name(ln.String(), a.nxProof.Nsec3Params.Iterations, a.nxProof.Nsec3Params.Salt)
			a.hashToOwner[hash] = ln.String()
			a.hashes = append(a.hashes, hash)
		}
		sort.Strings(a.hashes)
	}

	return a
}

// ZoneType implements [AuthorityObject].
func (a *MemoryAuthority) ZoneType() ZoneType { return a.zoneType }

// IsAXFRAllowed implements [AuthorityObject].
func (a *MemoryAuthority) IsAXFRAllowed() bool { return a.allowAXFR }

// CanValidateDNSSEC implements [AuthorityObject]. The in-memory backend
// never validates signatures itself; it only serves whatever RRSIGs were
// loaded alongside the zone.
func (a *MemoryAuthority) CanValidateDNSSEC() bool { return false }

// Origin implements [AuthorityObject].
func (a *MemoryAuthority) Origin() dnsmsg.LowerName { return a.origin }

// NxProofKind implements [AuthorityObject].
func (a *MemoryAuthority) NxProofKind() (NxProofKind, bool) {
	if a.nxProof == nil {
		return NxProofKind{}, false
	}
	return *a.nxProof, true
}

// Lookup implements [AuthorityObject].
func (a *MemoryAuthority) Lookup(_ context.Context, name dnsmsg.LowerName, rtype dnsmsg.RecordType, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if dnsmsg.IsAXFR(rtype) {
		return Continue[LookupObject](a.axfrLookup(opts), nil)
	}

	stored := a.byName[name.String()]
	if len(stored) == 0 {
		return Continue[LookupObject](EmptyLookup{}, nil)
	}

	var matched []dns.RR
	for _, rr := range stored {
		if dnsmsg.MatchesStored(rtype, rr.Header().Rrtype) {
			matched = append(matched, rr)
		}
	}
	if len(matched) == 0 {
		return Continue[LookupObject](EmptyLookup{}, nil)
	}
	return Continue[LookupObject](a.newLookup(matched, opts), nil)
}

// axfrLookup collects every record in the zone except the apex SOA, in
// canonical name order (RFC 5936 §2.2: the caller brackets the transfer
// with a leading and trailing SOA).
func (a *MemoryAuthority) axfrLookup(opts dnsmsg.LookupOptions) LookupObject {
	var all []dns.RR
	for _, ln := range a.names {
		for _, rr := range a.byName[ln.String()] {
			if ln.Equal(a.origin) && dnsmsg.IsSOA(rr.Header().Rrtype) {
				continue
			}
			all = append(all, rr)
		}
	}
	return a.newLookup(all, opts)
}

// Search implements [AuthorityObject]. The in-memory backend performs no
// CNAME chasing of its own; it answers exactly what [*MemoryAuthority.Lookup]
// would, falling back to non-existence proof records when opts.DNSSECOk is
// set and the name carries nothing.
func (a *MemoryAuthority) Search(ctx context.Context, name dnsmsg.LowerName, rtype dnsmsg.RecordType, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	flow := a.Lookup(ctx, name, rtype, opts)
	obj, err := flow.Unwrap()
	if err != nil || !obj.IsEmpty() || !opts.DNSSECOk {
		return flow
	}
	if kind, ok := a.NxProofKind(); ok && kind.Algorithm == NxProofNSEC3 {
		return a.GetNSEC3Records(ctx, Nsec3QueryInfo{QName: name, QType: rtype}, opts)
	}
	return a.GetNSECRecords(ctx, name, opts)
}

// NS implements [AuthorityObject].
func (a *MemoryAuthority) NS(ctx context.Context, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	return a.Lookup(ctx, a.origin, dnsmsg.TypeNS, opts)
}

// SOA implements [AuthorityObject].
func (a *MemoryAuthority) SOA(ctx context.Context) LookupControlFlow[LookupObject] {
	return a.Lookup(ctx, a.origin, dnsmsg.TypeSOA, dnsmsg.DefaultLookupOptions())
}

// SOASecure implements [AuthorityObject].
func (a *MemoryAuthority) SOASecure(ctx context.Context, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	return a.Lookup(ctx, a.origin, dnsmsg.TypeSOA, opts)
}

// GetNSECRecords implements [AuthorityObject]: it returns the NSEC record
// of the canonical predecessor of name, whose NextDomain field covers
// name's non-existence (RFC 4035 §3.1.3).
func (a *MemoryAuthority) GetNSECRecords(_ context.Context, name dnsmsg.LowerName, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.names) == 0 {
		return Continue[LookupObject](EmptyLookup{}, nil)
	}

	idx := sort.Search(len(a.names), func(i int) bool { return !a.names[i].Less(name) })
	predIdx := (idx - 1 + len(a.names)) % len(a.names)
	pred := a.names[predIdx]
	nextIdx := (predIdx + 1) % len(a.names)
	next := a.names[nextIdx]

	var types []uint16
	for _, rr := range a.byName[pred.String()] {
		types = append(types, rr.Header().Rrtype)
	}
	types = append(types, dns.TypeNSEC, dns.TypeRRSIG)

	nsec := &dns.NSEC{
		Hdr:        dns.RR_Header{Name: pred.String(), Rrtype: dns.TypeNSEC, Class: dns.ClassINET},
		NextDomain: next.String(),
		TypeBitMap: dedupTypes(types),
	}
	return Continue[LookupObject](a.newLookup([]dns.RR{nsec}, opts), nil)
}

// GetNSEC3Records implements [AuthorityObject]: it returns the NSEC3
// record whose hashed owner name is the covering predecessor of info's
// hashed query name (RFC 5155 §8). It returns only that one record: no
// record for a matching hash is added, and info.QType and info.Answerable
// are not consulted.
func (a *MemoryAuthority) GetNSEC3Records(_ context.Context, info Nsec3QueryInfo, opts dnsmsg.LookupOptions) LookupControlFlow[LookupObject] {
	a.mu.RLock()
	defer a.mu.RUnlock()

	kind, ok := a.NxProofKind()
	if !ok || kind.Algorithm != NxProofNSEC3 || len(a.hashes) == 0 {
		return Continue[LookupObject](EmptyLookup{}, nil)
	}

	params := kind.Nsec3Params
	queryHash := hashNSEC3Name(info.QName.String(), params.Iterations, params.Salt)

	idx := sort.SearchStrings(a.hashes, queryHash)
	predIdx := (idx - 1 + len(a.hashes)) % len(a.hashes)
	predHash := a.hashes[predIdx]
	nextIdx := (predIdx + 1) % len(a.hashes)
	nextHash := a.hashes[nextIdx]

	owner := a.hashToOwner[predHash]
	var types []uint16
	for _, rr := range a.byName[owner] {
		types = append(types, rr.Header().Rrtype)
	}
	types = append(types, dns.TypeRRSIG)

	nsec3 := &dns.NSEC3{
		Hdr:        dns.RR_Header{Name: predHash + "." + a.origin.String(), Rrtype: dns.TypeNSEC3, Class: dns.ClassINET},
		Hash:       dns.SHA1,
		Iterations: params.Iterations,
		SaltLength: uint8(len(params.Salt)),
		Salt:       saltHex(params.Salt),
		NextDomain: nextHash,
		TypeBitMap: dedupTypes(types),
	}
	return Continue[LookupObject](a.newLookup([]dns.RR{nsec3}, opts), nil)
}

// Update implements [AuthorityObject]: it checks the PREREQUISITE section
// (carried as update.Answer, per RFC 2136 §2.1's section renaming for
// update messages) before applying the UPDATE section (update.Ns).
func (a *MemoryAuthority) Update(_ context.Context, update *dns.Msg) UpdateResult[bool] {
	if len(update.Question) != 1 {
		return UpdateErr[bool](ErrNotAuthoritative)
	}
	zone := dns.CanonicalName(update.Question[0].Name)
	if zone != a.origin.String() {
		return UpdateErr[bool](ErrNotAuthoritative)
	}
	if a.zoneType != ZoneTypePrimary {
		return UpdateErr[bool](ErrRefused)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkPrerequisites(update.Answer); err != nil {
		return UpdateErr[bool](err)
	}
	a.applyUpdates(update.Ns)
	return UpdateOk(true)
}

// checkPrerequisites evaluates the YXRRSET/NXRRSET/YXDOMAIN/NXDOMAIN/
// RRset-exists-with-specific-RDATA prerequisites of RFC 2136 §2.4, assuming
// the caller already holds a.mu.
func (a *MemoryAuthority) checkPrerequisites(prereqs []dns.RR) error {
	for _, rr := range prereqs {
		hdr := rr.Header()
		owner := dns.CanonicalName(hdr.Name)
		stored := a.byName[owner]

		switch {
		case hdr.Class == dns.ClassANY && hdr.Rrtype == dns.TypeANY:
			// Name-is-in-use: NXDOMAIN if the name holds no records.
			if len(stored) == 0 {
				return ErrPrerequisiteFailed
			}
		case hdr.Class == dns.ClassNONE && hdr.Rrtype == dns.TypeANY:
			// Name-is-not-in-use.
			if len(stored) != 0 {
				return ErrPrerequisiteFailed
			}
		case hdr.Class == dns.ClassANY:
			// RRset-exists (value-independent), specific type.
			if !anyMatches(stored, hdr.Rrtype) {
				return ErrPrerequisiteFailed
			}
		case hdr.Class == dns.ClassNONE:
			// RRset-does-not-exist, specific type.
			if anyMatches(stored, hdr.Rrtype) {
				return ErrPrerequisiteFailed
			}
		default:
			// RRset-exists (value-dependent): every record in rr's
			// RRset must be present among the stored records.
			if !rrsetContains(stored, rr) {
				return ErrPrerequisiteFailed
			}
		}
	}
	return nil
}

// applyUpdates applies the UPDATE section's add/delete directives (RFC
// 2136 §2.5), assuming the caller already holds a.mu.
func (a *MemoryAuthority) applyUpdates(updates []dns.RR) {
	for _, rr := range updates {
		hdr := rr.Header()
		owner := dns.CanonicalName(hdr.Name)

		switch {
		case hdr.Class == dns.ClassANY && hdr.Rrtype == dns.TypeANY:
			delete(a.byName, owner)
			a.removeName(owner)
		case hdr.Class == dns.ClassANY:
			a.byName[owner] = filterRRs(a.byName[owner], func(stored dns.RR) bool {
				return stored.Header().Rrtype != hdr.Rrtype
			})
			a.pruneNameIfEmpty(owner)
		case hdr.Class == dns.ClassNONE:
			a.byName[owner] = filterRRs(a.byName[owner], func(stored dns.RR) bool {
				return !dns.IsDuplicate(stored, rr)
			})
			a.pruneNameIfEmpty(owner)
		default:
			a.addName(owner)
			a.byName[owner] = append(filterRRs(a.byName[owner], func(stored dns.RR) bool {
				// SOA and CNAME are single-record sets: an add replaces
				// them. Any other add joins the RRset, dropping only an
				// identical existing record.
				if hdr.Rrtype == dns.TypeSOA || hdr.Rrtype == dns.TypeCNAME {
					return !sameRRset(stored, rr)
				}
				return !dns.IsDuplicate(stored, rr)
			}), rr)
		}
	}
}

func (a *MemoryAuthority) addName(owner string) {
	for _, ln := range a.names {
		if ln.String() == owner {
			return
		}
	}
	if ln, err := dnsmsg.NewLowerName(owner); err == nil {
		a.names = append(a.names, ln)
		sort.Slice(a.names, func(i, j int) bool { return a.names[i].Less(a.names[j]) })
	}
}

func (a *MemoryAuthority) pruneNameIfEmpty(owner string) {
	if len(a.byName[owner]) == 0 {
		delete(a.byName, owner)
		a.removeName(owner)
	}
}

func (a *MemoryAuthority) removeName(owner string) {
	for i, ln := range a.names {
		if ln.String() == owner {
			a.names = append(a.names[:i], a.names[i+1:]...)
			return
		}
	}
}

// newLookup wraps matched records in a [LookupObject], attaching CNAME
// target glue as additionals when present and, when opts.DNSSECOk, any
// RRSIGs already stored alongside the matched records. The backend never
// validates a signature itself (see [*MemoryAuthority.CanValidateDNSSEC]),
// so the summary it reports is always [DnssecInsecure]: returning signed
// data on request is not the same as having validated it, and this
// backend must not claim a validation outcome it never performed.
func (a *MemoryAuthority) newLookup(matched []dns.RR, opts dnsmsg.LookupOptions) *memoryLookup {
	records := matched
	if opts.DNSSECOk {
		records = append(append([]dns.RR(nil), matched...), a.coveringSignatures(matched)...)
	}

	var additionals LookupObject
	for _, rr := range matched {
		cname, ok := rr.(*dns.CNAME)
		if !ok {
			continue
		}
		target := dns.CanonicalName(cname.Target)
		if glue := a.byName[target]; len(glue) > 0 {
			additionals = a.newLookup(glue, dnsmsg.DefaultLookupOptions())
		}
	}

	return &memoryLookup{records: records, additionals: additionals, dnssec: DnssecInsecure}
}

// coveringSignatures returns the RRSIGs already stored at each distinct
// owner name in matched whose TypeCovered names one of that owner's
// matched types, per RFC 4035 §3.1.1. It never synthesizes a signature:
// zones that were not loaded with RRSIGs simply yield none.
func (a *MemoryAuthority) coveringSignatures(matched []dns.RR) []dns.RR {
	coveredByOwner := make(map[string]map[uint16]bool)
	for _, rr := range matched {
		if rr.Header().Rrtype == dns.TypeRRSIG {
			continue
		}
		owner := rr.Header().Name
		if coveredByOwner[owner] == nil {
			coveredByOwner[owner] = make(map[uint16]bool)
		}
		coveredByOwner[owner][rr.Header().Rrtype] = true
	}

	var sigs []dns.RR
	for owner, covered := range coveredByOwner {
		for _, rr := range a.byName[owner] {
			rrsig, ok := rr.(*dns.RRSIG)
			if ok && covered[rrsig.TypeCovered] {
				sigs = append(sigs, rrsig)
			}
		}
	}
	return sigs
}

// memoryLookup is the [LookupObject] produced by [*MemoryAuthority].
type memoryLookup struct {
	records     []dns.RR
	additionals LookupObject
	taken       bool
	dnssec      DnssecSummary
}

func (l *memoryLookup) IsEmpty() bool { return len(l.records) == 0 }

func (l *memoryLookup) Records() []dns.RR { return l.records }

func (l *memoryLookup) TakeAdditionals() (LookupObject, bool) {
	if l.taken || l.additionals == nil {
		return nil, false
	}
	l.taken = true
	return l.additionals, true
}

func (l *memoryLookup) DNSSECSummary() DnssecSummary { return l.dnssec }

func anyMatches(stored []dns.RR, rtype uint16) bool {
	for _, rr := range stored {
		if rr.Header().Rrtype == rtype {
			return true
		}
	}
	return false
}

func rrsetContains(stored []dns.RR, want dns.RR) bool {
	for _, rr := range stored {
		if dns.IsDuplicate(rr, want) {
			return true
		}
	}
	return false
}

func sameRRset(a, b dns.RR) bool {
	return a.Header().Rrtype == b.Header().Rrtype && dns.CanonicalName(a.Header().Name) == dns.CanonicalName(b.Header().Name)
}

func filterRRs(rrs []dns.RR, keep func(dns.RR) bool) []dns.RR {
	out := rrs[:0]
	for _, rr := range rrs {
		if keep(rr) {
			out = append(out, rr)
		}
	}
	return out
}

func dedupTypes(types []uint16) []uint16 {
	seen := make(map[uint16]bool, len(types))
	out := make([]uint16, 0, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func saltHex(salt []byte) string {
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, len(salt)*2)
	for i, b := range salt {
		out[2*i] = hexDigits[b>>4]
		out[2*i+1] = hexDigits[b&0x0f]
	}
	return string(out)
}
