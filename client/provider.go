// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: github.com/bassosimone/minest dnsoverudp.go (NetDialer),
// generalized to expose the raw socket the spoof filter needs, per
// original_source/crates/proto/src/udp/udp_client_stream.rs (RuntimeProvider,
// DnsUdpSocket, NextRandomUdpSocket).
//

package client

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/tamaskb/duskdns/internal/runtimex"
)

// DNSUDPSocket abstracts over a [*net.UDPConn] bound to an ephemeral local
// port, exposing only the send/receive operations the transport needs.
type DNSUDPSocket interface {
	// WriteTo sends b to addr.
	WriteTo(b []byte, addr netip.AddrPort) (int, error)

	// ReadFrom reads into b, returning the number of bytes read and the
	// address the datagram actually arrived from — which the transport
	// must compare against the intended name server before trusting
	// anything else about the datagram (spec.md §4.1 step 1).
	ReadFrom(b []byte) (int, netip.AddrPort, error)

	// SetDeadline bounds all future I/O on the socket.
	SetDeadline(t time.Time) error

	// Close releases the socket.
	Close() error
}

// RuntimeProvider creates the per-query ephemeral sockets a [*UdpClientStream]
// uses. The default is [NetRuntimeProvider]; tests substitute a provider
// backed by in-memory sockets to simulate spoofed datagrams.
type RuntimeProvider interface {
	// BindUDPSocket creates a new UDP socket, optionally bound to
	// localAddr, ready to exchange datagrams with server.
	BindUDPSocket(ctx context.Context, server netip.AddrPort, localAddr *netip.AddrPort) (DNSUDPSocket, error)

	// Timer returns the [Timer] capability new sockets from this
	// provider are timed against.
	Timer() Timer
}

// NetRuntimeProvider is the [RuntimeProvider] backed by the standard
// library's net and time packages. The zero value is ready to use.
type NetRuntimeProvider struct {
	// ListenConfig is used to create the UDP socket. Defaults to the zero
	// value of [net.ListenConfig].
	ListenConfig net.ListenConfig
}

// Timer implements [RuntimeProvider] with [StdTimer].
func (p NetRuntimeProvider) Timer() Timer { return StdTimer{} }

// BindUDPSocket implements [RuntimeProvider].
func (p NetRuntimeProvider) BindUDPSocket(
	ctx context.Context, server netip.AddrPort, localAddr *netip.AddrPort,
) (DNSUDPSocket, error) {
	local := "0.0.0.0:0"
	if server.Addr().Is6() {
		local = "[::]:0"
	}
	if localAddr != nil {
		local = localAddr.String()
	}
	pc, err := p.ListenConfig.ListenPacket(ctx, "udp", local)
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	runtimex.Assertf(ok, "client: ListenPacket(\"udp\", %q) returned %T, not *net.UDPConn", local, pc)
	return &udpSocket{conn: conn}, nil
}

// udpSocket adapts a [*net.UDPConn] to [DNSUDPSocket].
type udpSocket struct {
	conn *net.UDPConn
}

func (s *udpSocket) WriteTo(b []byte, addr netip.AddrPort) (int, error) {
	return s.conn.WriteToUDPAddrPort(b, addr)
}

func (s *udpSocket) ReadFrom(b []byte) (int, netip.AddrPort, error) {
	return s.conn.ReadFromUDPAddrPort(b)
}

func (s *udpSocket) SetDeadline(t time.Time) error {
	return s.conn.SetDeadline(t)
}

func (s *udpSocket) Close() error {
	return s.conn.Close()
}
