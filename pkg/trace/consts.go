package trace

const (
	// CommentPrefix starts a comment, either on its own line or after a command.
	CommentPrefix = "#"

	// Command verbs.
	VerbAlloc    = "alloc"
	VerbFree     = "free"
	VerbTag      = "tag"
	VerbFreeTags = "freetags"
	VerbWrite    = "write"
	VerbExpect   = "expect"
	VerbCheck    = "check"
	VerbDump     = "dump"

	// Ownership modes for alloc.
	ModeOwned   = "owned"
	ModeUnowned = "unowned"

	// Expectation states.
	StateLive    = "live"
	StateEvicted = "evicted"

	// ScannerInitialBufferSize is the initial line buffer.
	ScannerInitialBufferSize = 4 * 1024

	// ScannerMaxLineSize bounds a single trace line.
	ScannerMaxLineSize = 64 * 1024
)
