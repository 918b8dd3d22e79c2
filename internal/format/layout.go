package format

// Block header layout (little-endian), embedded at the start of every block:
//
//	Offset  Size  Description
//	0x00    4     Size of the block in bytes, header included.
//	0x04    4     Tag (signed). Zero while the block is free.
//	0x08    4     Id. ZoneID while allocated, zero once freed.
//	0x0C    4     Owner. OwnerNone (free), OwnerUnowned, or OwnerSlotBase+slot.
//	0x10    4     Next block offset, or Sentinel.
//	0x14    4     Previous block offset, or Sentinel.
//	0x18    ...   Payload.
const (
	SizeOffset  = 0x00
	TagOffset   = 0x04
	IDOffset    = 0x08
	OwnerOffset = 0x0C
	NextOffset  = 0x10
	PrevOffset  = 0x14

	// HeaderSize is the number of bytes in front of every payload.
	HeaderSize = 0x18
)

const (
	// Alignment is the required alignment of every block and payload.
	Alignment     = 8
	AlignmentMask = Alignment - 1

	// ZoneID is stamped into the id field of allocated blocks and checked
	// whenever a caller hands back a payload pointer.
	ZoneID uint32 = 0x1d4a11

	// Sentinel is the link value that refers to the zone's list head.
	// It never names an arena offset.
	Sentinel int32 = -1
)

// Owner field values.
const (
	OwnerNone     uint32 = 0 // block is free
	OwnerUnowned  uint32 = 1 // allocated with no reference to notify
	OwnerSlotBase uint32 = 2 // owner slot s is stored as OwnerSlotBase+s
)

const (
	// MinArenaSize is the smallest arena that can hold a single block
	// with a non-empty payload.
	MinArenaSize = HeaderSize + Alignment

	// MaxArenaSize bounds the arena so every offset fits an int32 link.
	MaxArenaSize = 0x7FFFFFFF &^ AlignmentMask
)
