// SPDX-License-Identifier: GPL-3.0-or-later

// Package client implements a spoof-resistant DNS-over-UDP transport.
//
// The core abstraction is [*UdpClientStream]: it opens a fresh, randomly
// ported UDP socket for every query and discards any datagram that does not
// match the expected server address, transaction ID, and question section
// before trusting it as the answer. This is the same defense against cache
// poisoning that every production stub resolver implements, following RFC
// 1035 §7.3/§7.4.
//
// Construct a stream with [NewUdpClientStream] and send queries with
// [*UdpClientStream.SendMessage]:
//
//	stream := client.NewUdpClientStream(netip.MustParseAddrPort("8.8.8.8:53"))
//	query, _ := dnsmsg.NewQuery("example.com", dns.TypeA)
//	msg, _ := query.NewMsg()
//	resp, err := stream.SendMessage(context.Background(), msg)
//
// [MessageFinalizer] hooks let a caller attach a signature (e.g. TSIG) to
// outgoing queries and verify it on the response; [NoopMessageFinalizer] is
// the default. [Metrics] exposes Prometheus counters for sent, accepted,
// and dropped datagrams broken down by drop reason.
package client
