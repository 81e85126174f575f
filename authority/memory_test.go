// SPDX-License-Identifier: GPL-3.0-or-later

package authority

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/tamaskb/duskdns/dnsmsg"
)

func mustLowerName(t *testing.T, name string) dnsmsg.LowerName {
	t.Helper()
	ln, err := dnsmsg.NewLowerName(name)
	require.NoError(t, err)
	return ln
}

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}

// rrsetExistsPrereq builds an RFC 2136 §2.4.1 "RRset exists (value
// independent)" prerequisite: class ANY, the type in question, empty
// rdata.
func rrsetExistsPrereq(t *testing.T, owner string, rtype uint16) dns.RR {
	t.Helper()
	hdr := dns.RR_Header{Name: owner, Rrtype: rtype, Class: dns.ClassANY, Ttl: 0}
	return &dns.RFC3597{Hdr: hdr, Rdata: ""}
}

func newTestZone(t *testing.T) *MemoryAuthority {
	t.Helper()
	origin := mustLowerName(t, "example.com")
	records := []dns.RR{
		mustRR(t, "example.com. 3600 IN SOA ns1.example.com. hostmaster.example.com. 1 3600 600 86400 300"),
		mustRR(t, "example.com. 3600 IN RRSIG SOA 8 2 3600 20260901000000 20260801000000 12345 example.com. AAAA"),
		mustRR(t, "example.com. 3600 IN NS ns1.example.com."),
		mustRR(t, "example.com. 3600 IN A 192.0.2.1"),
		mustRR(t, "www.example.com. 3600 IN A 192.0.2.2"),
		mustRR(t, "www.example.com. 3600 IN AAAA 2001:db8::2"),
		mustRR(t, "mail.example.com. 3600 IN CNAME www.example.com."),
	}
	return NewMemoryAuthority(origin, ZoneTypePrimary, records, WithAXFRAllowed(true))
}

func TestMemoryAuthorityLookupANYMatchesEveryType(t *testing.T) {
	zone := newTestZone(t)
	flow := zone.Lookup(context.Background(), mustLowerName(t, "www.example.com"), dnsmsg.TypeANY, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.False(t, obj.IsEmpty())
	require.Len(t, obj.Records(), 2)
}

func TestMemoryAuthorityDropsRecordsOutsideOrigin(t *testing.T) {
	origin := mustLowerName(t, "example.com")
	records := []dns.RR{
		mustRR(t, "example.com. 3600 IN SOA ns1.example.com. hostmaster.example.com. 1 3600 600 86400 300"),
		mustRR(t, "www.example.com. 3600 IN A 192.0.2.2"),
		mustRR(t, "evil.example.net. 3600 IN A 192.0.2.99"),
	}
	zone := NewMemoryAuthority(origin, ZoneTypePrimary, records, WithAXFRAllowed(true))

	flow := zone.Lookup(context.Background(), mustLowerName(t, "evil.example.net"), dnsmsg.TypeA, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.True(t, obj.IsEmpty(), "a record outside origin must never be served")

	axfr := zone.Lookup(context.Background(), zone.Origin(), dnsmsg.TypeAXFR, dnsmsg.DefaultLookupOptions())
	obj, err = axfr.Unwrap()
	require.NoError(t, err)
	for _, rr := range obj.Records() {
		require.NotEqual(t, "evil.example.net.", dns.CanonicalName(rr.Header().Name))
	}
}

func TestMemoryAuthorityAXFRExcludesApexSOA(t *testing.T) {
	zone := newTestZone(t)
	flow := zone.Lookup(context.Background(), zone.Origin(), dnsmsg.TypeAXFR, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)

	for _, rr := range obj.Records() {
		isApex := dns.CanonicalName(rr.Header().Name) == zone.Origin().String()
		require.False(t, isApex && rr.Header().Rrtype == dns.TypeSOA,
			"apex SOA must not appear among AXFR records")
	}
	require.Len(t, obj.Records(), 6)
}

func TestMemoryAuthoritySOAReturnsOnlySOA(t *testing.T) {
	zone := newTestZone(t)
	flow := zone.SOA(context.Background())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.Len(t, obj.Records(), 1)
	require.Equal(t, uint16(dns.TypeSOA), obj.Records()[0].Header().Rrtype)
}

func TestMemoryAuthoritySOASecureHonorsOptions(t *testing.T) {
	zone := newTestZone(t)

	secure := zone.SOASecure(context.Background(), dnsmsg.LookupOptions{DNSSECOk: true})
	obj, err := secure.Unwrap()
	require.NoError(t, err)
	require.Len(t, obj.Records(), 2, "dnssec_ok must attach the zone's stored RRSIG alongside the SOA")
	var sawSOA, sawRRSIG bool
	for _, rr := range obj.Records() {
		switch rr.Header().Rrtype {
		case dns.TypeSOA:
			sawSOA = true
		case dns.TypeRRSIG:
			sawRRSIG = true
		}
	}
	require.True(t, sawSOA)
	require.True(t, sawRRSIG)
	// The backend never validates a signature itself (CanValidateDNSSEC
	// is false), so it must never report a validation outcome it didn't
	// perform, even when it has signed data to return.
	require.Equal(t, DnssecInsecure, obj.DNSSECSummary())

	insecure := zone.SOASecure(context.Background(), dnsmsg.LookupOptions{DNSSECOk: false})
	obj, err = insecure.Unwrap()
	require.NoError(t, err)
	require.Len(t, obj.Records(), 1, "without dnssec_ok the RRSIG must not be attached")
	require.Equal(t, dns.TypeSOA, obj.Records()[0].Header().Rrtype)
}

func TestMemoryAuthorityGetNSECRecordsReturnsPredecessor(t *testing.T) {
	zone := newTestZone(t)
	// "nonexistent.example.com" sorts between "mail" and "www".
	flow := zone.GetNSECRecords(context.Background(), mustLowerName(t, "nonexistent.example.com"), dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.Len(t, obj.Records(), 1)

	nsec, ok := obj.Records()[0].(*dns.NSEC)
	require.True(t, ok)
	require.Equal(t, "mail.example.com.", nsec.Hdr.Name)
	require.Equal(t, "www.example.com.", nsec.NextDomain)
}

func TestMemoryAuthorityTakeAdditionalsOnce(t *testing.T) {
	zone := newTestZone(t)
	flow := zone.Lookup(context.Background(), mustLowerName(t, "mail.example.com"), dnsmsg.TypeCNAME, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)

	additionals, ok := obj.TakeAdditionals()
	require.True(t, ok)
	require.False(t, additionals.IsEmpty())

	_, ok = obj.TakeAdditionals()
	require.False(t, ok)
}

func TestMemoryAuthorityLookupMissReturnsEmptyLookup(t *testing.T) {
	zone := newTestZone(t)
	flow := zone.Lookup(context.Background(), mustLowerName(t, "nonexistent.example.com"), dnsmsg.TypeA, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.True(t, obj.IsEmpty())
	require.Empty(t, obj.Records())
}

func TestEmptyLookupInvariants(t *testing.T) {
	var l EmptyLookup
	require.True(t, l.IsEmpty())
	require.Nil(t, l.Records())
	additionals, ok := l.TakeAdditionals()
	require.False(t, ok)
	require.Nil(t, additionals)
	require.Equal(t, DnssecInsecure, l.DNSSECSummary())
}

func TestMemoryAuthorityUpdateAppliesAndChecksPrerequisites(t *testing.T) {
	zone := newTestZone(t)

	update := new(dns.Msg)
	update.SetQuestion("example.com.", dns.TypeSOA)
	update.Question[0].Qclass = dns.ClassINET
	// PREREQUISITE: www.example.com must already have an A record.
	update.Answer = []dns.RR{rrsetExistsPrereq(t, "www.example.com.", dns.TypeA)}
	// UPDATE: add a new A record for a fresh name.
	update.Ns = []dns.RR{mustRR(t, "new.example.com. 3600 IN A 192.0.2.9")}

	result := zone.Update(context.Background(), update)
	ok, err := result.Unwrap()
	require.NoError(t, err)
	require.True(t, ok)

	flow := zone.Lookup(context.Background(), mustLowerName(t, "new.example.com"), dnsmsg.TypeA, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.False(t, obj.IsEmpty())
}

func TestMemoryAuthorityUpdateFailsOnUnmetPrerequisite(t *testing.T) {
	zone := newTestZone(t)

	update := new(dns.Msg)
	update.SetQuestion("example.com.", dns.TypeSOA)
	update.Answer = []dns.RR{rrsetExistsPrereq(t, "nosuchname.example.com.", dns.TypeA)}
	update.Ns = []dns.RR{mustRR(t, "new.example.com. 3600 IN A 192.0.2.9")}

	result := zone.Update(context.Background(), update)
	_, err := result.Unwrap()
	require.ErrorIs(t, err, ErrPrerequisiteFailed)

	flow := zone.Lookup(context.Background(), mustLowerName(t, "new.example.com"), dnsmsg.TypeA, dnsmsg.DefaultLookupOptions())
	obj, err := flow.Unwrap()
	require.NoError(t, err)
	require.True(t, obj.IsEmpty())
}

func TestMapDynBoxesConcreteLookupObject(t *testing.T) {
	zone := newTestZone(t)
	found, _ := zone.Lookup(context.Background(), zone.Origin(), dnsmsg.TypeA, dnsmsg.DefaultLookupOptions()).Unwrap()
	concrete := Continue(found.(*memoryLookup), nil)
	boxed := MapDyn(concrete)
	obj, err := boxed.Unwrap()
	require.NoError(t, err)
	require.False(t, obj.IsEmpty())
}

func TestDnssecSummaryCombine(t *testing.T) {
	require.Equal(t, DnssecSecure, DnssecSecure.Combine(DnssecSecure))
	require.Equal(t, DnssecBogus, DnssecSecure.Combine(DnssecBogus))
	require.Equal(t, DnssecInsecure, DnssecSecure.Combine(DnssecInsecure))
}
