package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/zonekit/zone"
)

// ErrSyntax marks every parse failure.
var ErrSyntax = errors.New("trace: syntax error")

// Op identifies a trace command.
type Op int

const (
	OpAlloc Op = iota
	OpFree
	OpTag
	OpFreeTags
	OpWrite
	OpExpect
	OpCheck
	OpDump
)

var opNames = [...]string{
	OpAlloc:    VerbAlloc,
	OpFree:     VerbFree,
	OpTag:      VerbTag,
	OpFreeTags: VerbFreeTags,
	OpWrite:    VerbWrite,
	OpExpect:   VerbExpect,
	OpCheck:    VerbCheck,
	OpDump:     VerbDump,
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Command is one parsed trace line.
type Command struct {
	Line int // 1-based source line
	Op   Op
	Name string // Block name for alloc, free, tag, write and expect

	Size   int      // alloc
	Tag    zone.Tag // alloc, tag; low bound for freetags and dump
	High   zone.Tag // freetags, dump
	Owned  bool     // alloc
	Fill   byte     // write
	Live   bool     // expect
	Ranged bool     // dump with explicit bounds
}

// Parse reads a trace script. Input may be UTF-8 or carry a UTF-16 byte
// order mark; the BOM selects the decoding.
func Parse(r io.Reader) ([]Command, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	scanner := bufio.NewScanner(decoded)
	buf := make([]byte, 0, ScannerInitialBufferSize)
	scanner.Buffer(buf, ScannerMaxLineSize)

	var cmds []Command
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.Index(text, CommentPrefix); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseCommand(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning trace")
	}
	return cmds, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func parseCommand(fields []string) (Command, error) {
	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case VerbAlloc:
		if len(args) < 3 || len(args) > 4 {
			return Command{}, usage(verb, "<name> <bytes> <tag> [owned|unowned]")
		}
		size, err := strconv.Atoi(args[1])
		if err != nil || size <= 0 {
			return Command{}, errors.Wrapf(ErrSyntax, "alloc: bad size %q", args[1])
		}
		tag, err := parseTag(args[2])
		if err != nil {
			return Command{}, err
		}
		owned := true
		if len(args) == 4 {
			switch strings.ToLower(args[3]) {
			case ModeOwned:
			case ModeUnowned:
				owned = false
			default:
				return Command{}, errors.Wrapf(ErrSyntax, "alloc: bad ownership %q", args[3])
			}
		}
		return Command{Op: OpAlloc, Name: args[0], Size: size, Tag: tag, Owned: owned}, nil

	case VerbFree:
		if len(args) != 1 {
			return Command{}, usage(verb, "<name>")
		}
		return Command{Op: OpFree, Name: args[0]}, nil

	case VerbTag:
		if len(args) != 2 {
			return Command{}, usage(verb, "<name> <tag>")
		}
		tag, err := parseTag(args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Op: OpTag, Name: args[0], Tag: tag}, nil

	case VerbFreeTags:
		if len(args) != 2 {
			return Command{}, usage(verb, "<low> <high>")
		}
		low, high, err := parseRange(args)
		if err != nil {
			return Command{}, err
		}
		return Command{Op: OpFreeTags, Tag: low, High: high}, nil

	case VerbWrite:
		if len(args) != 2 {
			return Command{}, usage(verb, "<name> <byte>")
		}
		v, err := strconv.ParseUint(args[1], 0, 8)
		if err != nil {
			return Command{}, errors.Wrapf(ErrSyntax, "write: bad byte %q", args[1])
		}
		return Command{Op: OpWrite, Name: args[0], Fill: byte(v)}, nil

	case VerbExpect:
		if len(args) != 2 {
			return Command{}, usage(verb, "<name> live|evicted")
		}
		var live bool
		switch strings.ToLower(args[1]) {
		case StateLive:
			live = true
		case StateEvicted:
		default:
			return Command{}, errors.Wrapf(ErrSyntax, "expect: bad state %q", args[1])
		}
		return Command{Op: OpExpect, Name: args[0], Live: live}, nil

	case VerbCheck:
		if len(args) != 0 {
			return Command{}, usage(verb, "")
		}
		return Command{Op: OpCheck}, nil

	case VerbDump:
		switch len(args) {
		case 0:
			return Command{Op: OpDump}, nil
		case 2:
			low, high, err := parseRange(args)
			if err != nil {
				return Command{}, err
			}
			return Command{Op: OpDump, Tag: low, High: high, Ranged: true}, nil
		default:
			return Command{}, usage(verb, "[low high]")
		}
	}
	return Command{}, errors.Wrapf(ErrSyntax, "unknown command %q", fields[0])
}

func parseTag(s string) (zone.Tag, error) {
	tag, err := zone.ParseTag(s)
	if err != nil {
		return 0, errors.Mark(err, ErrSyntax)
	}
	return tag, nil
}

func parseRange(args []string) (zone.Tag, zone.Tag, error) {
	low, err := parseTag(args[0])
	if err != nil {
		return 0, 0, err
	}
	high, err := parseTag(args[1])
	if err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

func usage(verb, args string) error {
	return errors.Wrapf(ErrSyntax, "usage: %s %s", verb, args)
}
