// SPDX-License-Identifier: GPL-3.0-or-later

package authority

import "errors"

// Errors returned by this package, matching the RFC 2136 update outcomes
// enumerated in the specification's error taxonomy.
var (
	// ErrPrerequisiteFailed means an update's PREREQUISITE section did
	// not hold against the current zone contents.
	ErrPrerequisiteFailed = errors.New("authority: update prerequisite failed")

	// ErrRefused means the update targets a zone this authority will not
	// accept writes for (e.g. a secondary or external zone).
	ErrRefused = errors.New("authority: update refused")

	// ErrNotAuthoritative means the update's zone section names a zone
	// this authority does not serve.
	ErrNotAuthoritative = errors.New("authority: not authoritative for zone")

	// ErrServerFailure means applying the update failed for a reason
	// unrelated to the client's input.
	ErrServerFailure = errors.New("authority: server failure applying update")
)
