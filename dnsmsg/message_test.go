// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmsg

import (
	"net/netip"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func TestMessagePackParseRoundTrip(t *testing.T) {
	msg := new(dns.Msg)
	msg.SetQuestion("example.com.", dns.TypeA)
	wrapped := WrapMessage(msg)

	raw, err := wrapped.Pack()
	require.NoError(t, err)

	parsed, err := ParseMessage(raw)
	require.NoError(t, err)
	require.Equal(t, wrapped.ID(), parsed.ID())
	require.Equal(t, wrapped.Queries(), parsed.Queries())
}

func TestParseMessageRejectsMalformedBuffer(t *testing.T) {
	_, err := ParseMessage([]byte{0x00, 0x01})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestMessageMaxPayloadDefaultsWithoutEDNS(t *testing.T) {
	msg := new(dns.Msg)
	msg.SetQuestion("example.com.", dns.TypeA)
	require.Equal(t, uint16(DefaultMaxPayload), WrapMessage(msg).MaxPayload())
}

func TestMessageMaxPayloadReadsEDNS(t *testing.T) {
	msg := new(dns.Msg)
	msg.SetQuestion("example.com.", dns.TypeA)
	msg.SetEdns0(4096, false)
	require.Equal(t, uint16(4096), WrapMessage(msg).MaxPayload())
}

func TestQuestionSubsetAllowsNarrowingNotWidening(t *testing.T) {
	req := []dns.Question{{Name: "example.com.", Qtype: dns.TypeA, Qclass: dns.ClassINET}}

	require.True(t, QuestionSubset(nil, req), "a response may narrow to zero questions")
	require.True(t, QuestionSubset(req, req))

	forged := []dns.Question{{Name: "evil.example.", Qtype: dns.TypeA, Qclass: dns.ClassINET}}
	require.False(t, QuestionSubset(forged, req), "a response may not introduce a new question")
}

func TestSerialMessageRoundTrip(t *testing.T) {
	msg := new(dns.Msg)
	msg.SetQuestion("example.com.", dns.TypeAAAA)
	raw, err := msg.Pack()
	require.NoError(t, err)

	sm := NewSerialMessage(raw, netip.MustParseAddrPort("127.0.0.1:53"))
	parsed, err := sm.ToMessage()
	require.NoError(t, err)
	require.Equal(t, msg.Question, parsed.Queries())
}
