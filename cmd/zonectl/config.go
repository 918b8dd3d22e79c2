package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/joshuapare/zonekit/internal/format"
	"github.com/joshuapare/zonekit/pkg/arena"
	"github.com/joshuapare/zonekit/zone"
)

// DefaultArenaSize matches the classic 6 MiB zone.
const DefaultArenaSize = 6 << 20

// ArenaConfiguration controls how the zone's memory is obtained.
type ArenaConfiguration struct {
	Size        int    `toml:"size"`
	Backing     string `toml:"backing"`
	MinFragment int    `toml:"min_fragment"`
}

// LogConfiguration controls zonectl's own logging.
type LogConfiguration struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Config is the zonectl.toml layout.
type Config struct {
	Arena ArenaConfiguration `toml:"arena"`
	Log   LogConfiguration   `toml:"log"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Arena: ArenaConfiguration{
			Size:        DefaultArenaSize,
			Backing:     string(arena.BackingHeap),
			MinFragment: zone.DefaultMinFragment,
		},
		Log: LogConfiguration{
			Level:   "warn",
			Console: true,
		},
	}
}

// LoadConfig decodes path over the defaults. An empty path yields the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return c, nil
}

// Validate checks configuration for errors
func (c Config) Validate() error {
	if c.Arena.Size < format.MinArenaSize || c.Arena.Size > format.MaxArenaSize {
		return fmt.Errorf("invalid arena size: %d (must be %d..%d)",
			c.Arena.Size, format.MinArenaSize, format.MaxArenaSize)
	}
	if _, err := arena.ParseBacking(c.Arena.Backing); err != nil {
		return err
	}
	if c.Arena.MinFragment < 0 {
		return fmt.Errorf("invalid min_fragment: %d", c.Arena.MinFragment)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

func newLogger(c LogConfiguration) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return zerolog.Nop(), err
	}
	var w io.Writer = os.Stderr
	if c.Console {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// openZone obtains an arena per c and formats a zone over it. The returned
// function shuts the zone down and releases the arena.
func openZone(c Config, log zerolog.Logger) (*zone.Zone, func() error, error) {
	backing, err := arena.ParseBacking(c.Arena.Backing)
	if err != nil {
		return nil, nil, err
	}
	a, err := arena.New(c.Arena.Size, backing)
	if err != nil {
		return nil, nil, err
	}
	data, err := a.Bytes()
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	opts := []zone.Option{zone.WithLogger(log.With().Str("component", "zone").Logger())}
	if c.Arena.MinFragment > 0 {
		opts = append(opts, zone.WithMinFragment(c.Arena.MinFragment))
	}
	z, err := zone.New(data, opts...)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	log.Debug().
		Int("size", z.Size()).
		Str("backing", string(a.Backing())).
		Msg("zone opened")

	closeFn := func() error {
		z.Shutdown()
		return a.Close()
	}
	return z, closeFn, nil
}
