package format

import (
	"fmt"

	"github.com/joshuapare/zonekit/internal/buf"
)

// Header is the decoded form of a block header.
type Header struct {
	Offset int    // Arena offset of the header
	Size   int    // Total size including header
	Tag    int32  // Lifetime class
	ID     uint32 // ZoneID while allocated
	Owner  uint32 // Owner field, see OwnerNone/OwnerUnowned/OwnerSlotBase
	Next   int32  // Next block offset or Sentinel
	Prev   int32  // Previous block offset or Sentinel
}

// Free reports whether the header describes a free block.
func (h Header) Free() bool { return h.Owner == OwnerNone }

// End returns the offset one past the last byte of the block.
func (h Header) End() int { return h.Offset + h.Size }

// Payload returns the offset of the first payload byte.
func (h Header) Payload() int { return h.Offset + HeaderSize }

// ReadHeader decodes the header at off. The caller gets an error instead of a
// panic when off does not leave room for a full header inside b.
func ReadHeader(b []byte, off int) (Header, error) {
	if !buf.Has(b, off, HeaderSize) {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	if !Aligned(off) {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrMisaligned)
	}
	return Header{
		Offset: off,
		Size:   int(ReadU32(b, off+SizeOffset)),
		Tag:    ReadI32(b, off+TagOffset),
		ID:     ReadU32(b, off+IDOffset),
		Owner:  ReadU32(b, off+OwnerOffset),
		Next:   ReadI32(b, off+NextOffset),
		Prev:   ReadI32(b, off+PrevOffset),
	}, nil
}

// PutHeader encodes h at h.Offset.
func PutHeader(b []byte, h Header) {
	off := h.Offset
	PutU32(b, off+SizeOffset, uint32(h.Size))
	PutI32(b, off+TagOffset, h.Tag)
	PutU32(b, off+IDOffset, h.ID)
	PutU32(b, off+OwnerOffset, h.Owner)
	PutI32(b, off+NextOffset, h.Next)
	PutI32(b, off+PrevOffset, h.Prev)
}
