package zone

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTag_Purgeable(t *testing.T) {
	for _, tag := range []Tag{TagFree, TagStatic, TagSound, TagMusic, TagDave, TagLevel, TagLevSpec, PurgeLevel - 1} {
		require.False(t, tag.Purgeable(), "%s", tag)
	}
	for _, tag := range []Tag{PurgeLevel, TagCache, 5000, MaxTag} {
		require.True(t, tag.Purgeable(), "%s", tag)
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in      string
		want    Tag
		wantErr bool
	}{
		{"static", TagStatic, false},
		{" Cache ", TagCache, false},
		{"levspec", TagLevSpec, false},
		{"purgelevel", PurgeLevel, false},
		{"free", TagFree, false},
		{"120", 120, false},
		{"-3", -3, false},
		{"2147483647", MaxTag, false},
		{"2147483648", 0, true},
		{"forever", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTag(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownTag)
				require.Contains(t, err.Error(), "unknown tag")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTag_String(t *testing.T) {
	require.Equal(t, "level", TagLevel.String())
	require.Equal(t, "dave", TagDave.String())
	require.Equal(t, "120", Tag(120).String())
}

func TestTag_JSON(t *testing.T) {
	type doc struct {
		Tags []Tag `json:"tags"`
	}
	out, err := json.Marshal(doc{Tags: []Tag{TagSound, 77}})
	require.NoError(t, err)
	require.JSONEq(t, `{"tags":["sound","77"]}`, string(out))

	var back doc
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, []Tag{TagSound, 77}, back.Tags)

	require.Error(t, json.Unmarshal([]byte(`{"tags":["nope"]}`), &back))
}
