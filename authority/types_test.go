// SPDX-License-Identifier: GPL-3.0-or-later

package authority

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZoneTypeString(t *testing.T) {
	cases := []struct {
		zt   ZoneType
		want string
	}{
		{ZoneTypePrimary, "primary"},
		{ZoneTypeSecondary, "secondary"},
		{ZoneTypeExternal, "external"},
		{ZoneTypeHint, "hint"},
		{ZoneTypeForward, "forward"},
		{ZoneType(99), "unknown"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.zt.String())
	}
}

func TestUpdateResultUnwrap(t *testing.T) {
	ok := UpdateOk(true)
	v, err := ok.Unwrap()
	require.NoError(t, err)
	require.True(t, v)

	failed := UpdateErr[bool](ErrPrerequisiteFailed)
	_, err = failed.Unwrap()
	require.ErrorIs(t, err, ErrPrerequisiteFailed)
}
