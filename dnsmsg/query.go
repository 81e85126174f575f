// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: github.com/bassosimone/minest query.go
//

package dnsmsg

import "github.com/miekg/dns"

// Query is a DNS query (spec.md §3 "Query (Question)"): a lower-cased name,
// class and record type, plus the query-time flags a transport needs to
// build the wire message.
//
// Construct using [NewQuery].
type Query struct {
	// Name is the canonicalized query name.
	Name LowerName

	// Type is the query type, including the ANY/AXFR pseudo-types.
	Type RecordType

	// Class is the query class, usually [dns.ClassINET].
	Class uint16

	// id is the transaction ID. The transport overwrites this late,
	// right before send (spec.md §4.1 step 2).
	id uint16

	// maxPayload is the EDNS(0) UDP payload size to advertise.
	maxPayload uint16

	// options carries the DNSSEC-OK bit and any EDNS options to attach.
	options LookupOptions
}

// NewQuery constructs a [*Query] for name and rtype.
func NewQuery(name string, rtype RecordType) (*Query, error) {
	lname, err := NewLowerName(name)
	if err != nil {
		return nil, err
	}
	return &Query{
		Name:       lname,
		Type:       rtype,
		Class:      dns.ClassINET,
		maxPayload: DefaultMaxPayload,
		options:    DefaultLookupOptions(),
	}, nil
}

// Clone returns a deep copy of the query.
func (q *Query) Clone() *Query {
	cp := *q
	if q.options.EDNSOptions != nil {
		cp.options.EDNSOptions = make([]EDNSOption, len(q.options.EDNSOptions))
		for i, e := range q.options.EDNSOptions {
			cp.options.EDNSOptions[i] = EDNSOption{Code: e.Code, Data: append([]byte(nil), e.Data...)}
		}
	}
	return &cp
}

// WithOptions attaches lookup options (DNSSEC-OK, max payload) to the
// query, returning the same query for chaining.
func (q *Query) WithOptions(opts LookupOptions) *Query {
	q.options = opts
	if opts.MaxPayload > 0 {
		q.maxPayload = opts.MaxPayload
	}
	return q
}

// SetID overwrites the transaction ID the transport will use.
func (q *Query) SetID(id uint16) {
	q.id = id
}

// ID returns the transaction ID currently set on the query.
func (q *Query) ID() uint16 {
	return q.id
}

// NewMsg builds the [*dns.Msg] this query represents, including the EDNS(0)
// OPT record carrying the max payload and the DO bit.
func (q *Query) NewMsg() (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.Id = q.id
	msg.RecursionDesired = true
	msg.Question = []dns.Question{{
		Name:   q.Name.String(),
		Qtype:  q.Type,
		Qclass: q.Class,
	}}
	msg.SetEdns0(q.maxPayload, q.options.DNSSECOk)
	if opt := msg.IsEdns0(); opt != nil {
		opt.SetVersion(q.options.EDNSVersion)
		for _, e := range q.options.EDNSOptions {
			opt.Option = append(opt.Option, &dns.EDNS0_LOCAL{Code: e.Code, Data: e.Data})
		}
	}
	return msg, nil
}
