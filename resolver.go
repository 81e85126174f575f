// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/minest resolver.go (Resolver,
// LookupHost/LookupA/LookupAAAA, the async fan-out over A/AAAA), rebuilt on
// [client.UdpClientStream] instead of the unavailable dnscodec/Transport
// abstraction, since this repo only implements the UDP transport in scope.
//

// Package duskdns builds a small stub-resolver facade on the [dnsmsg] and
// [client] packages.
package duskdns

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/tamaskb/duskdns/client"
	"github.com/tamaskb/duskdns/dnsmsg"
)

// DefaultResolverTimeout is the default overall lookup timeout used by
// [*Resolver].
const DefaultResolverTimeout = 10 * time.Second

// ErrNoData means a lookup completed but the response carried no records
// of the requested type.
var ErrNoData = errors.New("duskdns: no data")

// Resolver answers A/AAAA/host lookups by sending queries over a
// [*client.UdpClientStream], mirroring the shape of [*net.Resolver] without
// replacing the stdlib resolver globally.
//
// Construct with [NewResolver].
type Resolver struct {
	// Stream is the transport used to exchange queries.
	Stream *client.UdpClientStream

	// Timeout is the overall lookup timeout, covering both the A and
	// AAAA queries issued by [*Resolver.LookupHost].
	Timeout time.Duration
}

// NewResolver creates a [*Resolver] querying nameServer directly.
func NewResolver(nameServer netip.AddrPort) *Resolver {
	return &Resolver{
		Stream:  client.NewUdpClientStream(nameServer),
		Timeout: DefaultResolverTimeout,
	}
}

type resolverResult struct {
	addrs []string
	err   error
}

// LookupHost resolves domain to its IPv4 and IPv6 addresses, querying both
// record types concurrently.
func (r *Resolver) LookupHost(ctx context.Context, domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	ach := make(chan resolverResult, 1)
	aaaach := make(chan resolverResult, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		addrs, err := r.LookupA(ctx, domain)
		ach <- resolverResult{addrs, err}
	}()
	go func() {
		defer wg.Done()
		addrs, err := r.LookupAAAA(ctx, domain)
		aaaach <- resolverResult{addrs, err}
	}()
	wg.Wait()

	ares, aaaares := <-ach, <-aaaach
	if ares.err != nil && aaaares.err != nil {
		return nil, errors.Join(ares.err, aaaares.err)
	}

	addrs := append(ares.addrs, aaaares.addrs...)
	if len(addrs) < 1 {
		return nil, ErrNoData
	}
	return addrs, nil
}

// LookupA resolves domain to its IPv4 addresses.
func (r *Resolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	return r.lookupAddrs(ctx, domain, dns.TypeA)
}

// LookupAAAA resolves domain to its IPv6 addresses.
func (r *Resolver) LookupAAAA(ctx context.Context, domain string) ([]string, error) {
	return r.lookupAddrs(ctx, domain, dns.TypeAAAA)
}

func (r *Resolver) lookupAddrs(ctx context.Context, domain string, rtype dnsmsg.RecordType) ([]string, error) {
	query, err := dnsmsg.NewQuery(domain, rtype)
	if err != nil {
		return nil, err
	}
	msg, err := query.NewMsg()
	if err != nil {
		return nil, err
	}

	resp, err := r.Stream.SendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, rr := range resp.Message.Raw().Answer {
		switch rr := rr.(type) {
		case *dns.A:
			out = append(out, rr.A.String())
		case *dns.AAAA:
			out = append(out, rr.AAAA.String())
		}
	}
	if len(out) < 1 {
		return nil, ErrNoData
	}
	return out, nil
}
