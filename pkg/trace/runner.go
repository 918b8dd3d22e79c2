package trace

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/joshuapare/zonekit/zone"
)

var (
	// ErrUnknownName is returned when a command names a block that was
	// never allocated or has already been freed.
	ErrUnknownName = errors.New("trace: unknown block name")

	// ErrExpectation is returned when an expect command does not hold.
	ErrExpectation = errors.New("trace: expectation failed")
)

// block is the runner's record of one named allocation.
type block struct {
	ref   zone.Ref // Owned blocks
	p     zone.Ptr // Unowned blocks
	owned bool
	size  int
	tag   zone.Tag

	filled bool
	fill   byte
}

func (b *block) ptr() (zone.Ptr, bool) {
	if b.owned {
		return b.ref.Load()
	}
	return b.p, true
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithCheckEach verifies the heap after every command.
func WithCheckEach(on bool) Option {
	return func(r *Runner) { r.checkEach = on }
}

// WithOutput sets where dump commands write. Default: io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// Runner replays commands against a zone. Names bind to blocks: owned
// blocks are tracked through a zone.Ref, so an eviction shows up as a
// cleared name rather than a dangling pointer.
type Runner struct {
	z         *zone.Zone
	log       zerolog.Logger
	checkEach bool
	out       io.Writer

	blocks map[string]*block
	steps  int
}

// NewRunner creates a runner for z.
func NewRunner(z *zone.Zone, opts ...Option) *Runner {
	r := &Runner{
		z:      z,
		log:    zerolog.Nop(),
		out:    io.Discard,
		blocks: make(map[string]*block),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result summarizes a replay.
type Result struct {
	Steps   int        // Commands executed successfully
	Live    int        // Named blocks still allocated
	Evicted int        // Named owned blocks reclaimed by the zone
	Stats   zone.Stats // Zone counters after the last command
}

// Run executes cmds in order and stops at the first failure. A fatal zone
// error is returned as an error rather than propagated as a panic, so the
// zone must be discarded after Run reports one marked with zone.ErrCorrupt
// or zone.ErrExhausted.
func (r *Runner) Run(ctx context.Context, cmds []Command) (Result, error) {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return r.result(), err
		}
		if err := r.step(cmd); err != nil {
			r.log.Error().Err(err).Int("line", cmd.Line).Str("op", cmd.Op.String()).Msg("trace step failed")
			return r.result(), errors.Wrapf(err, "line %d: %s", cmd.Line, cmd.Op)
		}
		r.steps++
	}
	res := r.result()
	r.log.Info().
		Int("steps", res.Steps).
		Int("live", res.Live).
		Int("evicted", res.Evicted).
		Int("evictions", res.Stats.Evictions).
		Msg("trace replayed")
	return res, nil
}

func (r *Runner) result() Result {
	res := Result{Steps: r.steps}
	for _, b := range r.blocks {
		if _, ok := b.ptr(); ok {
			res.Live++
		} else {
			res.Evicted++
		}
	}
	res.Stats = r.z.Stats()
	return res
}

// step runs one command, turning a zone fatal error into a returned error.
func (r *Runner) step(cmd Command) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(error)
			if !ok {
				panic(rec)
			}
			err = e
		}
	}()

	if err := r.exec(cmd); err != nil {
		return err
	}
	if r.checkEach {
		r.z.CheckHeap()
	}
	return nil
}

func (r *Runner) exec(cmd Command) error {
	switch cmd.Op {
	case OpAlloc:
		if b, ok := r.blocks[cmd.Name]; ok {
			if _, live := b.ptr(); live {
				return errors.Newf("alloc: %q is still allocated", cmd.Name)
			}
		}
		b := &block{owned: cmd.Owned, size: cmd.Size, tag: cmd.Tag}
		if cmd.Owned {
			r.z.Malloc(cmd.Size, cmd.Tag, &b.ref)
		} else {
			b.p = r.z.Malloc(cmd.Size, cmd.Tag, nil)
		}
		r.blocks[cmd.Name] = b

	case OpFree:
		_, p, err := r.live(cmd.Name)
		if err != nil {
			return err
		}
		r.z.Free(p)
		delete(r.blocks, cmd.Name)

	case OpTag:
		b, p, err := r.live(cmd.Name)
		if err != nil {
			return err
		}
		r.z.ChangeTag(p, cmd.Tag)
		b.tag = cmd.Tag

	case OpFreeTags:
		r.z.FreeTags(cmd.Tag, cmd.High)
		r.forgetReleased(cmd.Tag, cmd.High)

	case OpWrite:
		b, p, err := r.live(cmd.Name)
		if err != nil {
			return err
		}
		payload := r.z.Bytes(p)[:b.size]
		for i := range payload {
			payload[i] = cmd.Fill
		}
		b.filled, b.fill = true, cmd.Fill

	case OpExpect:
		return r.expect(cmd)

	case OpCheck:
		r.z.CheckHeap()

	case OpDump:
		low, high := zone.Tag(math.MinInt32), zone.MaxTag
		if cmd.Ranged {
			low, high = cmd.Tag, cmd.High
		}
		return r.z.DumpHeap(r.out, low, high)

	default:
		return errors.Newf("unknown op %d", int(cmd.Op))
	}
	return nil
}

// live resolves name to a currently allocated block.
func (r *Runner) live(name string) (*block, zone.Ptr, error) {
	b, ok := r.blocks[name]
	if !ok {
		return nil, zone.Nil, errors.Wrapf(ErrUnknownName, "%q", name)
	}
	p, ok := b.ptr()
	if !ok {
		return nil, zone.Nil, errors.Wrapf(ErrUnknownName, "%q was evicted", name)
	}
	return b, p, nil
}

func (r *Runner) expect(cmd Command) error {
	b, ok := r.blocks[cmd.Name]
	if !ok {
		return errors.Wrapf(ErrUnknownName, "%q", cmd.Name)
	}
	p, live := b.ptr()
	if live != cmd.Live {
		state := StateEvicted
		if live {
			state = StateLive
		}
		return errors.Wrapf(ErrExpectation, "%q is %s", cmd.Name, state)
	}
	if !live || !b.filled {
		return nil
	}
	for i, v := range r.z.Bytes(p)[:b.size] {
		if v != b.fill {
			return errors.Wrapf(ErrExpectation, "%q byte %d is 0x%02X, wrote 0x%02X", cmd.Name, i, v, b.fill)
		}
	}
	return nil
}

// forgetReleased drops unowned names whose blocks FreeTags(low, high)
// released. Owned names stay so that expect can observe the cleared ref.
func (r *Runner) forgetReleased(low, high zone.Tag) {
	for name, b := range r.blocks {
		if !b.owned && b.tag >= low && b.tag <= high {
			delete(r.blocks, name)
		}
	}
}

// Summary renders res on one line.
func (res Result) Summary() string {
	return fmt.Sprintf("%d steps, %d live, %d evicted, %d evictions, %d bytes free",
		res.Steps, res.Live, res.Evicted, res.Stats.Evictions, res.Stats.FreeBytes+res.Stats.PurgeableBytes)
}
