package zone

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/joshuapare/zonekit/internal/format"
)

// DefaultMinFragment is the largest remainder Malloc leaves attached to a
// block instead of splitting it off as a new free block.
const DefaultMinFragment = 64

// DefaultOwnerSlots is the owner table capacity reserved by New.
const DefaultOwnerSlots = 64

// Runtime debug flag for allocation logging - controlled by ZONE_LOG_ALLOC env var.
var logAlloc = os.Getenv("ZONE_LOG_ALLOC") != ""

// FatalFunc reports an unrecoverable zone error to the host. It is not
// expected to return; if it does, the zone panics with the same error.
type FatalFunc func(err error)

// Option configures a Zone.
type Option func(*options)

type options struct {
	log         zerolog.Logger
	fatal       FatalFunc
	minFragment int
	ownerSlots  int
}

func defaultOptions() options {
	log := zerolog.Nop()
	if logAlloc {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("component", "zone").Logger()
	}
	return options{
		log:         log,
		fatal:       func(err error) { panic(err) },
		minFragment: DefaultMinFragment,
		ownerSlots:  DefaultOwnerSlots,
	}
}

// WithLogger sets the logger used for eviction and fatal events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithFatal installs the host error function.
func WithFatal(fn FatalFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.fatal = fn
		}
	}
}

// WithMinFragment sets the split threshold. Values below the smallest
// possible block are raised to it.
func WithMinFragment(n int) Option {
	return func(o *options) {
		o.minFragment = max(n, format.HeaderSize+format.Alignment)
	}
}

// WithOwnerSlots preallocates the owner table for n live owned blocks. The
// table only grows on the Go heap when more than n owned blocks are live at
// once; freed slots are reused.
func WithOwnerSlots(n int) Option {
	return func(o *options) { o.ownerSlots = max(n, 0) }
}
