// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmsg

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func TestNewQueryBuildsMsgWithEDNS(t *testing.T) {
	q, err := NewQuery("example.com", dns.TypeA)
	require.NoError(t, err)
	q.SetID(1234)

	msg, err := q.NewMsg()
	require.NoError(t, err)
	require.Equal(t, uint16(1234), msg.Id)
	require.Len(t, msg.Question, 1)
	require.Equal(t, "example.com.", msg.Question[0].Name)

	opt := msg.IsEdns0()
	require.NotNil(t, opt)
	require.Equal(t, uint16(DefaultMaxPayload), opt.UDPSize())
	require.False(t, opt.Do())
}

func TestQueryWithOptionsSetsDNSSECOk(t *testing.T) {
	q, err := NewQuery("example.com", dns.TypeA)
	require.NoError(t, err)
	q.WithOptions(LookupOptions{DNSSECOk: true, MaxPayload: 4096})

	msg, err := q.NewMsg()
	require.NoError(t, err)
	opt := msg.IsEdns0()
	require.True(t, opt.Do())
	require.Equal(t, uint16(4096), opt.UDPSize())
}

func TestQueryCloneIsIndependent(t *testing.T) {
	q, err := NewQuery("example.com", dns.TypeA)
	require.NoError(t, err)
	clone := q.Clone()
	clone.SetID(99)

	require.Equal(t, uint16(0), q.ID())
	require.Equal(t, uint16(99), clone.ID())
}
