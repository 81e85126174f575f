// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/minest query.go, response.go
//

package dnsmsg

import (
	"net/netip"

	"github.com/miekg/dns"
)

// Message is a thin, spec-shaped view over a [*dns.Msg]: the wire codec and
// message model described in spec.md §3/§4.1.
//
// Construct with [WrapMessage] or [ParseMessage]. Serialization is lossless
// with respect to the wire form because we never copy fields out of the
// underlying [*dns.Msg]; we only read and mutate it directly.
type Message struct {
	raw *dns.Msg
}

// WrapMessage wraps an existing [*dns.Msg].
func WrapMessage(m *dns.Msg) *Message {
	return &Message{raw: m}
}

// Raw returns the underlying [*dns.Msg].
func (m *Message) Raw() *dns.Msg {
	return m.raw
}

// ID returns the 16-bit header transaction ID.
func (m *Message) ID() uint16 {
	return m.raw.Id
}

// SetID overwrites the 16-bit header transaction ID.
//
// The transport is free to do this late, right before send, per the "ID
// assigned late" lifecycle note in spec.md §3.
func (m *Message) SetID(id uint16) {
	m.raw.Id = id
}

// Queries returns the question section.
func (m *Message) Queries() []dns.Question {
	return m.raw.Question
}

// MaxPayload returns the maximum UDP payload size advertised via the EDNS
// OPT pseudo-record, or [DefaultMaxPayload] if none is present.
func (m *Message) MaxPayload() uint16 {
	if opt := m.raw.IsEdns0(); opt != nil {
		if size := opt.UDPSize(); size > 0 {
			return size
		}
	}
	return DefaultMaxPayload
}

// Pack serializes the message to wire format.
func (m *Message) Pack() ([]byte, error) {
	buf, err := m.raw.Pack()
	if err != nil {
		return nil, ErrSerialization
	}
	return buf, nil
}

// ParseMessage parses buf as a DNS message.
func ParseMessage(buf []byte) (*Message, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(buf); err != nil {
		return nil, ErrMalformed
	}
	return &Message{raw: msg}, nil
}

// QuestionSubset reports whether every question in resp also appears in
// req, by value (name, class, type) — the asymmetric containment check
// from spec.md §4.1/§8: a response may omit questions but may not add or
// alter them.
func QuestionSubset(resp, req []dns.Question) bool {
	for _, r := range resp {
		found := false
		for _, q := range req {
			if questionEqual(r, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func questionEqual(a, b dns.Question) bool {
	return dns.CanonicalName(a.Name) == dns.CanonicalName(b.Name) &&
		a.Qtype == b.Qtype && a.Qclass == b.Qclass
}

// SerialMessage is an owned byte buffer paired with a peer socket address,
// matching the "Serial Message" entity in spec.md §3.
type SerialMessage struct {
	// Bytes is the complete, serialized DNS message.
	Bytes []byte

	// Peer is the socket address this message was sent to, or received
	// from.
	Peer netip.AddrPort
}

// NewSerialMessage constructs a [SerialMessage].
func NewSerialMessage(b []byte, peer netip.AddrPort) SerialMessage {
	return SerialMessage{Bytes: b, Peer: peer}
}

// ToMessage parses the serial message's bytes into a [*Message].
func (s SerialMessage) ToMessage() (*Message, error) {
	return ParseMessage(s.Bytes)
}

// Response is a parsed DNS response paired with the raw bytes it was
// decoded from, matching the "DNS Response" entity in spec.md §3: the raw
// buffer is retained so a [MessageVerifier] can re-hash it (e.g. for TSIG).
type Response struct {
	// Message is the parsed response.
	Message *Message

	// Raw is the raw wire-format bytes the message was parsed from.
	Raw []byte
}

// NewResponse parses raw as a DNS message and pairs it with the raw bytes.
func NewResponse(raw []byte) (*Response, error) {
	msg, err := ParseMessage(raw)
	if err != nil {
		return nil, err
	}
	return &Response{Message: msg, Raw: raw}, nil
}
