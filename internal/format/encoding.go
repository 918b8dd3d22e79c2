package format

import "encoding/binary"

// Header fields are 32-bit little-endian words. Offsets are absolute arena
// offsets (block base plus field offset); callers bounds-check first.

var le = binary.LittleEndian

func word(b []byte, off int) []byte { return b[off : off+4 : off+4] }

// PutU32 stores an unsigned header word.
func PutU32(b []byte, off int, v uint32) { le.PutUint32(word(b, off), v) }

// PutI32 stores a signed header word such as a tag or a link.
func PutI32(b []byte, off int, v int32) { le.PutUint32(word(b, off), uint32(v)) }

func ReadU32(b []byte, off int) uint32 { return le.Uint32(word(b, off)) }

// ReadI32 loads a signed header word; links use -1 for the sentinel.
func ReadI32(b []byte, off int) int32 { return int32(le.Uint32(word(b, off))) }
