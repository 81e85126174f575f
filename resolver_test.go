// SPDX-License-Identifier: GPL-3.0-or-later

package duskdns

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/tamaskb/duskdns/internal/dnstestutil"
)

func TestResolverLookupHostAgainstRealServer(t *testing.T) {
	server, err := dnstestutil.NewUDPTestServer(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		switch req.Question[0].Qtype {
		case dns.TypeA:
			rr, _ := dns.NewRR(req.Question[0].Name + " 60 IN A 192.0.2.10")
			resp.Answer = append(resp.Answer, rr)
		case dns.TypeAAAA:
			rr, _ := dns.NewRR(req.Question[0].Name + " 60 IN AAAA 2001:db8::10")
			resp.Answer = append(resp.Answer, rr)
		}
		_ = w.WriteMsg(resp)
	})
	require.NoError(t, err)
	defer server.Close()

	addr := server.Addr()
	resolver := NewResolver(addr.AddrPort())

	addrs, err := resolver.LookupHost(context.Background(), "example.com")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"192.0.2.10", "2001:db8::10"}, addrs)
}

func TestResolverLookupHostNoData(t *testing.T) {
	server, err := dnstestutil.NewUDPTestServer(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		_ = w.WriteMsg(resp)
	})
	require.NoError(t, err)
	defer server.Close()

	resolver := NewResolver(server.Addr().AddrPort())
	_, err = resolver.LookupHost(context.Background(), "example.com")
	require.ErrorIs(t, err, ErrNoData)
}
