// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/proto/src/udp/udp_client_stream.rs
// (signer / MessageFinalizer / MessageVerifier).
//

package client

import "github.com/miekg/dns"

// MessageVerifier re-validates a raw response buffer after it has passed
// the transport's spoof filters, e.g. to check a TSIG signature. It is
// produced by [MessageFinalizer.Finalize] and receives the exact bytes
// read off the wire.
type MessageVerifier func(raw []byte) (*dns.Msg, error)

// MessageFinalizer amends an outgoing query before it is sent — e.g. to
// attach a TSIG record — and returns a [MessageVerifier] to validate the
// eventual response.
type MessageFinalizer interface {
	// ShouldFinalize reports whether msg needs amending before being sent.
	ShouldFinalize(msg *dns.Msg) bool

	// Finalize amends msg in place. now is the query time as a Unix
	// timestamp truncated to 32 bits, matching the wire format TSIG uses
	// for its time-signed field; this truncation wraps in 2106 and is
	// inherited from the wire format itself, not a bug in this package.
	Finalize(msg *dns.Msg, now uint32) (MessageVerifier, error)
}

// NoopMessageFinalizer is a [MessageFinalizer] that never amends the
// message and accepts any response unconditionally. It is the default used
// by [NewUdpClientStream] when no signer is configured.
type NoopMessageFinalizer struct{}

// ShouldFinalize implements [MessageFinalizer].
func (NoopMessageFinalizer) ShouldFinalize(*dns.Msg) bool {
	return false
}

// Finalize implements [MessageFinalizer].
func (NoopMessageFinalizer) Finalize(msg *dns.Msg, _ uint32) (MessageVerifier, error) {
	return nil, nil
}
