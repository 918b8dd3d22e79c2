package arena

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zonekit/zone"
)

func TestParseBacking(t *testing.T) {
	tests := []struct {
		in      string
		want    Backing
		wantErr bool
	}{
		{"", BackingHeap, false},
		{"heap", BackingHeap, false},
		{" MMAP ", BackingMmap, false},
		{"shm", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBacking(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNew_BadSize(t *testing.T) {
	_, err := New(0, BackingHeap)
	require.ErrorIs(t, err, ErrBadSize)

	_, err = New(-8, BackingMmap)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestNew_UnknownBacking(t *testing.T) {
	_, err := New(4096, "shm")
	require.Error(t, err)
}

func TestArena_Backings(t *testing.T) {
	for _, backing := range []Backing{BackingHeap, BackingMmap} {
		t.Run(string(backing), func(t *testing.T) {
			a, err := New(64<<10, backing)
			require.NoError(t, err)
			require.Equal(t, backing, a.Backing())
			require.Equal(t, 64<<10, a.Len())

			data, err := a.Bytes()
			require.NoError(t, err)
			require.Len(t, data, 64<<10)
			for _, b := range data[:256] {
				require.Zero(t, b)
			}

			// The memory must be writable end to end.
			data[0], data[len(data)-1] = 0xAA, 0x55
			require.Equal(t, byte(0xAA), data[0])

			require.NoError(t, a.Close())
			require.NoError(t, a.Close(), "second Close is a no-op")
			require.Zero(t, a.Len())
			_, err = a.Bytes()
			require.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestArena_HostsZone(t *testing.T) {
	a, err := New(1<<20, BackingMmap)
	require.NoError(t, err)
	defer a.Close()

	data, err := a.Bytes()
	require.NoError(t, err)
	z, err := zone.New(data)
	require.NoError(t, err)

	var ref zone.Ref
	p := z.Malloc(4000, zone.TagCache, &ref)
	copy(z.Bytes(p), "level data")
	z.CheckHeap()

	got := z.Shutdown()
	require.Len(t, got, 1<<20)
	require.False(t, ref.Valid())
}
