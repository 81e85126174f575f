// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/poyrazK-cloudDNS internal/dns/packet/nsec3.go
// (the same RFC 5155 iterative SHA-1 hash and base32hex encoding), adapted
// to use the standard library's encoding/base32 HexEncoding alphabet
// instead of a hand-rolled table, since that alphabet is byte-for-byte the
// RFC 5155 §3.3 one.
//

package authority

import (
	"crypto/sha1"
	"encoding/base32"
	"strings"
)

// hashNSEC3Name computes the RFC 5155 §5 iterated SHA-1 hash (algorithm 1,
// the only one the RFC defines) of name for the given iterations and salt,
// returning the upper-case base32hex encoding used in
// NSEC3 owner names and presentation format.
func hashNSEC3Name(name string, iterations uint16, salt []byte) string {
	wire := wireFormatName(name)

	h := sha1.Sum(append(append([]byte{}, wire...), salt...))
	sum := h[:]
	for i := uint16(0); i < iterations; i++ {
		next := sha1.Sum(append(append([]byte{}, sum...), salt...))
		sum = next[:]
	}
	return strings.ToUpper(base32.HexEncoding.WithPadding(base32.NoPadding).EncodeToString(sum))
}

// wireFormatName renders a fully-qualified, lower-case name as its DNS wire
// format label sequence, as required by the NSEC3 hash definition.
func wireFormatName(fqdn string) []byte {
	fqdn = strings.ToLower(strings.TrimSuffix(fqdn, "."))
	if fqdn == "" {
		return []byte{0}
	}
	labels := strings.Split(fqdn, ".")
	wire := make([]byte, 0, len(fqdn)+len(labels)+1)
	for _, l := range labels {
		wire = append(wire, byte(len(l)))
		wire = append(wire, l...)
	}
	return append(wire, 0)
}
