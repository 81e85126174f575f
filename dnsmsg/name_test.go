// SPDX-License-Identifier: GPL-3.0-or-later

package dnsmsg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLowerNameCanonicalizesCaseAndFQDN(t *testing.T) {
	ln, err := NewLowerName("WWW.Example.COM")
	require.NoError(t, err)
	require.Equal(t, "www.example.com.", ln.String())
	require.True(t, strings.HasSuffix(ln.String(), "."))
}

func TestNewLowerNameRejectsOverlongName(t *testing.T) {
	// 5 labels of 63 bytes plus separators exceed the 255-byte limit.
	label := strings.Repeat("a", 63)
	name := strings.Join([]string{label, label, label, label, label}, ".")
	_, err := NewLowerName(name)
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestNewLowerNameRejectsOverlongLabel(t *testing.T) {
	_, err := NewLowerName(strings.Repeat("a", 64) + ".example.com")
	require.Error(t, err)
}

func TestLowerNameIsSubdomainOf(t *testing.T) {
	origin := MustLowerName("example.com")
	child := MustLowerName("www.example.com")
	other := MustLowerName("example.net")

	require.True(t, child.IsSubdomainOf(origin))
	require.False(t, other.IsSubdomainOf(origin))
	require.True(t, origin.IsSubdomainOf(origin))
}

func TestLowerNameIsRoot(t *testing.T) {
	require.True(t, MustLowerName(".").IsRoot())
	require.False(t, MustLowerName("example.com").IsRoot())
}

func TestLowerNameEqual(t *testing.T) {
	a := MustLowerName("Example.com")
	b := MustLowerName("example.COM.")
	require.True(t, a.Equal(b))
}

func TestLowerNameLessCanonicalOrdering(t *testing.T) {
	// RFC 4034 §6.1 example ordering (abbreviated).
	names := []string{"z.example", "a.example", "yljkjljk.example", "example"}
	sorted := make([]LowerName, len(names))
	for i, n := range names {
		sorted[i] = MustLowerName(n)
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Less(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	require.Equal(t, "example.", sorted[0].String())
}
