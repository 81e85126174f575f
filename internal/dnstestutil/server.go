// SPDX-License-Identifier: GPL-3.0-or-later
//
// Folds the teacher's external github.com/bassosimone/dnstest dependency
// (referenced by client.go's doc comment as "the [*Handler] and
// [*HandlerConfig]... the [*UDPTestServer]") into an internal package, since
// that module's source is not available to vendor.
//

// Package dnstestutil provides a real UDP DNS server for exercising
// transports and authorities against actual sockets in tests.
package dnstestutil

import (
	"net"
	"sync"

	"github.com/miekg/dns"
)

// HandlerFunc adapts a function to [dns.Handler].
type HandlerFunc func(w dns.ResponseWriter, r *dns.Msg)

// ServeDNS implements [dns.Handler].
func (f HandlerFunc) ServeDNS(w dns.ResponseWriter, r *dns.Msg) {
	f(w, r)
}

// UDPTestServer is a minimal DNS-over-UDP server bound to an ephemeral
// loopback port, suitable for exercising a real [*client.UdpClientStream]
// end to end.
//
// Construct with [NewUDPTestServer] and stop it with [*UDPTestServer.Close].
type UDPTestServer struct {
	conn *net.UDPConn

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewUDPTestServer starts a server on 127.0.0.1 using an OS-assigned port,
// dispatching every received datagram to handler in its own goroutine.
func NewUDPTestServer(handler HandlerFunc) (*UDPTestServer, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		return nil, err
	}
	s := &UDPTestServer{conn: conn, done: make(chan struct{})}
	go s.serve(handler)
	return s, nil
}

// Addr returns the server's listening address.
func (s *UDPTestServer) Addr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

func (s *UDPTestServer) serve(handler HandlerFunc) {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		n, peer, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		req := new(dns.Msg)
		if err := req.Unpack(buf[:n]); err != nil {
			continue
		}
		go handler(&udpResponseWriter{conn: s.conn, peer: peer}, req)
	}
}

// Close stops the server and waits for the serve loop to exit.
func (s *UDPTestServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.conn.Close()
	<-s.done
	return err
}

// udpResponseWriter implements [dns.ResponseWriter] over a shared
// [*net.UDPConn], writing every reply back to the peer that asked.
type udpResponseWriter struct {
	conn *net.UDPConn
	peer *net.UDPAddr
}

func (w *udpResponseWriter) LocalAddr() net.Addr  { return w.conn.LocalAddr() }
func (w *udpResponseWriter) RemoteAddr() net.Addr { return w.peer }

func (w *udpResponseWriter) WriteMsg(m *dns.Msg) error {
	raw, err := m.Pack()
	if err != nil {
		return err
	}
	_, err = w.conn.WriteToUDP(raw, w.peer)
	return err
}

func (w *udpResponseWriter) Write(raw []byte) (int, error) {
	return w.conn.WriteToUDP(raw, w.peer)
}

func (w *udpResponseWriter) Close() error              { return nil }
func (w *udpResponseWriter) TsigStatus() error          { return nil }
func (w *udpResponseWriter) TsigTimersOnly(bool)        {}
func (w *udpResponseWriter) Hijack()                    {}
func (w *udpResponseWriter) Network() string            { return "udp" }
