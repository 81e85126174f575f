// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/proto/src/udp/udp_client_stream.rs
// (RuntimeProvider::Timer, `P::Timer::timeout(self.timeout, recv_future)`
// wrapping the receive future so the whole exchange dies on one deadline).
//

package client

import (
	"context"
	"time"
)

// Timer is the delay/timeout capability a [RuntimeProvider] associates with
// its sockets, mirroring the original implementation's RuntimeProvider::Timer
// trait (`delay_for`, `timeout`).
type Timer interface {
	// DelayFor returns a channel that receives once after d elapses, or
	// ctx is canceled, whichever comes first.
	DelayFor(ctx context.Context, d time.Duration) <-chan time.Time

	// Timeout derives a child of ctx that is canceled with
	// [context.DeadlineExceeded] once d elapses, bounding every I/O call
	// made with the returned context.
	Timeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc)
}

// StdTimer is the [Timer] backed by the standard library's time package.
// The zero value is ready to use.
type StdTimer struct{}

// DelayFor implements [Timer].
func (StdTimer) DelayFor(ctx context.Context, d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case now := <-t.C:
			ch <- now
		case <-ctx.Done():
			ch <- time.Now()
		}
	}()
	return ch
}

// Timeout implements [Timer].
func (StdTimer) Timeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
