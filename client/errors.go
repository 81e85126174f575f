// SPDX-License-Identifier: GPL-3.0-or-later

package client

import "errors"

// Errors returned by this package.
var (
	// ErrShutdown is returned by [*UdpClientStream.SendMessage] once
	// [*UdpClientStream.Shutdown] has been called.
	ErrShutdown = errors.New("client: stream is shut down")

	// ErrShortWrite means the socket accepted fewer bytes than the
	// serialized query, which for UDP means the datagram was not sent at
	// all — UDP has no partial-write recovery.
	ErrShortWrite = errors.New("client: short write sending query")
)
