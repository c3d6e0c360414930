package tileset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGIDFlags(t *testing.T) {
	cases := []struct {
		name   string
		raw    GID
		id     int
		h, v   bool
		d, hex bool
	}{
		{"plain", 42, 42, false, false, false, false},
		{"horizontal", 0x80000000 | 42, 42, true, false, false, false},
		{"vertical", 0x40000000 | 7, 7, false, true, false, false},
		{"diagonal", 0x20000000 | 7, 7, false, false, true, false},
		{"hex", 0x10000000 | 7, 7, false, false, false, true},
		{"all", 0xF0000001, 1, true, true, true, true},
		{"empty", 0, 0, false, false, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.id, c.raw.ID())
			f := c.raw.Flags()
			require.Equal(t, c.h, f.Horizontal())
			require.Equal(t, c.v, f.Vertical())
			require.Equal(t, c.d, f.Diagonal())
			require.Equal(t, c.hex, f.Hex120())
			require.Equal(t, c.raw, MakeGID(c.id, f))
		})
	}

	require.True(t, GID(0).Empty())
	require.True(t, MakeGID(0, FlipHorizontal).Empty())
	require.False(t, GID(1).Empty())
}
