// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmsg

import "errors"

// Errors returned by the wire codec and value types in this package.
//
// These use the same suffix convention the teacher's [response.go] adopted
// from the standard library, where it matters for compatibility; the rest
// are plain sentinel errors per the taxonomy in the specification.
var (
	// ErrNameTooLong means a fully-qualified name exceeds [MaxNameLength].
	ErrNameTooLong = errors.New("dnsmsg: name too long")

	// ErrLabelTooLong means a single label exceeds [MaxLabelLength].
	ErrLabelTooLong = errors.New("dnsmsg: label too long")

	// ErrNoQuestion means a message does not carry exactly one question.
	ErrNoQuestion = errors.New("dnsmsg: message does not carry exactly one question")

	// ErrSerialization means a message could not be packed to wire format.
	ErrSerialization = errors.New("dnsmsg: serialization failed")

	// ErrMalformed means a buffer could not be parsed as a DNS message.
	ErrMalformed = errors.New("dnsmsg: malformed message")
)
