package zone

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Tag classifies the lifetime of a block. Tags at or above PurgeLevel are
// purgeable: the zone may reclaim them on any later Malloc.
type Tag int32

const (
	TagFree    Tag = 0 // tag carried by free blocks
	TagStatic  Tag = 1 // static for the whole process
	TagSound   Tag = 2 // static while playing
	TagMusic   Tag = 3 // static while playing
	TagDave    Tag = 4 // anything else Dave wants static
	TagLevel   Tag = 50
	TagLevSpec Tag = 51 // special thinkers in a level

	// PurgeLevel is the first purgeable tag. Every tag >= PurgeLevel may be
	// evicted; the value above it is only a cache priority hint.
	PurgeLevel Tag = 100
	TagCache   Tag = 101
)

// MaxTag is the largest tag value; FreeTags(PurgeLevel, MaxTag) drops every
// purgeable block.
const MaxTag Tag = 1<<31 - 1

var tagNames = map[Tag]string{
	TagFree:    "free",
	TagStatic:  "static",
	TagSound:   "sound",
	TagMusic:   "music",
	TagDave:    "dave",
	TagLevel:   "level",
	TagLevSpec: "levspec",
	PurgeLevel: "purgelevel",
	TagCache:   "cache",
}

// Purgeable reports whether blocks carrying t may be evicted.
func (t Tag) Purgeable() bool { return t >= PurgeLevel }

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// ParseTag accepts a tag name ("static", "cache", ...) or a decimal value.
func ParseTag(s string) (Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for tag, name := range tagNames {
		if name == s {
			return tag, nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Mark(errors.Newf("zone: unknown tag %q", s), ErrUnknownTag)
	}
	return Tag(v), nil
}

// MarshalText renders the tag by name so dumps and configs stay readable.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts anything ParseTag accepts.
func (t *Tag) UnmarshalText(b []byte) error {
	v, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
