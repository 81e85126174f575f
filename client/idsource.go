// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/proto/src/udp/udp_client_stream.rs
// (random_query_id), adapted to Go's crypto/rand.
//

package client

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"sync"
	"sync/atomic"
)

// IDSource produces transaction IDs for outgoing queries. Each socket is
// unique to one query (spec.md §4.1), so the source only needs to avoid
// predictability, not global uniqueness.
type IDSource interface {
	// NextID returns the next transaction ID to use.
	NextID() uint16
}

// CryptoRandSource draws transaction IDs from crypto/rand. This is the
// default used by [NewUdpClientStream].
type CryptoRandSource struct{}

// NextID implements [IDSource].
func (CryptoRandSource) NextID() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read on any supported platform only fails if the
		// system's entropy source is unavailable; there is nothing a
		// DNS client can usefully do at that point.
		panic("client: crypto/rand unavailable: " + err.Error())
	}
	return binary.BigEndian.Uint16(buf[:])
}

// SeededSource is a deterministic [IDSource] for tests: it replays IDs from
// a small PRNG seeded once via [SeededSource.Seed]. It logs a warning on
// first use so that it is never mistaken for production randomness.
//
// The zero value is ready to use: if [SeededSource.Seed] was never invoked,
// the first call starts from a fixed built-in seed, so an unseeded source
// yields the same ID sequence on every run.
type SeededSource struct {
	// Logger receives the first-use warning. Defaults to [slog.Default].
	Logger *slog.Logger

	state   uint64
	seeded  atomic.Bool
	warned  atomic.Bool
	mu      sync.Mutex
}

// Seed fixes the generator's internal state, making subsequent [SeededSource.NextID]
// calls reproducible across runs.
func (s *SeededSource) Seed(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seed == 0 {
		seed = 1
	}
	s.state = seed
	s.seeded.Store(true)
}

func (s *SeededSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NextID implements [IDSource] using a xorshift64* generator. This is not
// cryptographically secure and must never be used against a real network.
func (s *SeededSource) NextID() uint16 {
	if s.warned.CompareAndSwap(false, true) {
		s.logger().Warn("client: SeededSource in use, transaction IDs are predictable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded.Load() {
		s.state = 0x9e3779b97f4a7c15
		s.seeded.Store(true)
	}
	s.state ^= s.state >> 12
	s.state ^= s.state << 25
	s.state ^= s.state >> 27
	return uint16(s.state * 0x2545F4914F6CDD1D >> 48)
}
