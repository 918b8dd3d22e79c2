package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zonekit/internal/format"
)

// layout writes a directory of consecutive blocks with the given sizes.
// Blocks at the indexes in free are left free; the rest are allocated.
func layout(t *testing.T, arena []byte, sizes []int, free ...int) []format.Header {
	t.Helper()
	isFree := make(map[int]bool)
	for _, i := range free {
		isFree[i] = true
	}
	hdrs := make([]format.Header, len(sizes))
	off := 0
	for i, size := range sizes {
		h := format.Header{Offset: off, Size: size, Next: format.Sentinel, Prev: format.Sentinel}
		if !isFree[i] {
			h.Tag = 1
			h.ID = format.ZoneID
			h.Owner = format.OwnerUnowned
		}
		if i > 0 {
			h.Prev = int32(hdrs[i-1].Offset)
			hdrs[i-1].Next = int32(off)
		}
		hdrs[i] = h
		off += size
	}
	require.Equal(t, len(arena), off, "layout must cover the arena")
	for _, h := range hdrs {
		format.PutHeader(arena, h)
	}
	return hdrs
}

func TestDirectory_Healthy(t *testing.T) {
	arena := make([]byte, 512)
	hdrs := layout(t, arena, []int{64, 128, 96, 224}, 1, 3)
	require.NoError(t, Directory(arena, 0, int32(hdrs[3].Offset)))
	require.Empty(t, All(arena, 0, int32(hdrs[3].Offset)))
}

func TestDirectory_SingleFreeBlock(t *testing.T) {
	arena := make([]byte, 256)
	layout(t, arena, []int{256}, 0)
	require.NoError(t, Directory(arena, 0, 0))
}

func TestDirectory_Violations(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(arena []byte, hdrs []format.Header) (head, tail int32)
		want    string
		offset  int
	}{
		{
			name: "empty directory",
			corrupt: func([]byte, []format.Header) (int32, int32) {
				return format.Sentinel, format.Sentinel
			},
			want:   TypeCoverage,
			offset: -1,
		},
		{
			name: "head not at arena start",
			corrupt: func(_ []byte, hdrs []format.Header) (int32, int32) {
				return int32(hdrs[1].Offset), int32(hdrs[3].Offset)
			},
			want:   TypeCoverage,
			offset: 64,
		},
		{
			name: "first block links backwards",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutI32(arena, format.PrevOffset, 64)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeBackLink,
			offset: 0,
		},
		{
			name: "size shorter than a header",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutU32(arena, hdrs[1].Offset+format.SizeOffset, 8)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeBounds,
			offset: 64,
		},
		{
			name: "size overshoots the next block",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutU32(arena, hdrs[0].Offset+format.SizeOffset, 72)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeContiguity,
			offset: 0,
		},
		{
			name: "broken back link",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutI32(arena, hdrs[2].Offset+format.PrevOffset, 0)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeBackLink,
			offset: 64,
		},
		{
			name: "adjacent free blocks",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutU32(arena, hdrs[2].Offset+format.OwnerOffset, format.OwnerNone)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeAdjacentFree,
			offset: 64,
		},
		{
			name: "next link outside the arena",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutI32(arena, hdrs[1].Offset+format.NextOffset, 4096)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeBounds,
			offset: 4096,
		},
		{
			name: "misaligned next link",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutI32(arena, hdrs[1].Offset+format.NextOffset, 196)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeBounds,
			offset: 196,
		},
		{
			name: "last block short of the arena end",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutU32(arena, hdrs[3].Offset+format.SizeOffset, 200)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeCoverage,
			offset: 288,
		},
		{
			name: "tail does not match the last block",
			corrupt: func(_ []byte, hdrs []format.Header) (int32, int32) {
				return 0, int32(hdrs[2].Offset)
			},
			want:   TypeBackLink,
			offset: 288,
		},
		{
			name: "link back to an earlier block",
			corrupt: func(arena []byte, hdrs []format.Header) (int32, int32) {
				format.PutI32(arena, hdrs[2].Offset+format.NextOffset, 0)
				return 0, int32(hdrs[3].Offset)
			},
			want:   TypeContiguity,
			offset: 192,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := make([]byte, 512)
			hdrs := layout(t, arena, []int{64, 128, 96, 224}, 1, 3)
			head, tail := tt.corrupt(arena, hdrs)

			err := Directory(arena, head, tail)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.want, verr.Type, "got %v", err)
			require.Equal(t, tt.offset, verr.Offset)
		})
	}
}

func TestAll_CollectsEveryViolation(t *testing.T) {
	arena := make([]byte, 512)
	hdrs := layout(t, arena, []int{64, 128, 96, 224}, 1, 3)
	// Break a back link and make blocks 1 and 2 both free.
	format.PutI32(arena, hdrs[1].Offset+format.PrevOffset, 32)
	format.PutU32(arena, hdrs[2].Offset+format.OwnerOffset, format.OwnerNone)

	errs := All(arena, 0, int32(hdrs[3].Offset))
	var types []string
	for _, e := range errs {
		types = append(types, e.Type)
	}
	// Block 2 is now free next to free blocks on both sides.
	require.Equal(t, []string{TypeBackLink, TypeAdjacentFree, TypeAdjacentFree}, types)
}

func TestAll_StopsOnLoop(t *testing.T) {
	arena := make([]byte, 512)
	hdrs := layout(t, arena, []int{64, 128, 96, 224}, 1, 3)
	format.PutI32(arena, hdrs[2].Offset+format.NextOffset, int32(hdrs[1].Offset))

	errs := All(arena, 0, int32(hdrs[3].Offset))
	require.NotEmpty(t, errs)
	require.Equal(t, TypeCycle, errs[len(errs)-1].Type)
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Type: TypeBounds, Message: "bad", Offset: 0x40}
	require.Equal(t, "Bounds at block 0x40: bad", e.Error())

	e = &ValidationError{Type: TypeCoverage, Message: "directory is empty", Offset: -1}
	require.Equal(t, "Coverage: directory is empty", e.Error())
}
