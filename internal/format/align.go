package format

// Alignment utilities for zone block headers and payloads.
// Every block starts on an Alignment boundary, so every payload does too.

// Align returns n aligned up to the next Alignment (8-byte) boundary.
//
// Example:
//
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
//	Align(16) = 16
func Align(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown returns n truncated to the previous Alignment boundary.
// Used to trim a host-supplied arena whose length is not a multiple of Alignment.
func AlignDown(n int) int {
	return n &^ AlignmentMask
}

// Aligned reports whether n sits on an Alignment boundary.
func Aligned(n int) bool {
	return n&AlignmentMask == 0
}

// BlockSize returns the total block size needed to hold a payload of n bytes:
// the payload rounded up to Alignment plus HeaderSize.
func BlockSize(n int) int {
	return HeaderSize + Align(n)
}
