package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommand(t *testing.T) {
	out, err := runCLI(t, "run", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	require.Contains(t, out, "13 steps, 2 live, 4 evicted, 2 evictions, 11696 bytes free")
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "run", "--json", "--size", "32768", "--check-each", testdataPath(t, "level.trace"))
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 13, got["steps"])
	require.Equal(t, 2, got["evictions"])
	require.Equal(t, 11696, got["free"])
}

func TestRunCommand_ConfigFile(t *testing.T) {
	out, err := runCLI(t, "run", "--config", testdataPath(t, "zonectl.toml"), testdataPath(t, "level.trace"))
	require.NoError(t, err)
	require.Contains(t, out, "2 evictions")
}

func TestRunCommand_Failures(t *testing.T) {
	_, err := runCLI(t, "run", testdataPath(t, "bad_expect.trace"))
	require.ErrorContains(t, err, "line 2")
	require.ErrorContains(t, err, "expectation failed")

	_, err = runCLI(t, "run", testdataPath(t, "syntax.trace"))
	require.ErrorContains(t, err, "line 2")
	require.ErrorContains(t, err, `unknown command "realloc"`)

	_, err = runCLI(t, "run", "testdata/does-not-exist.trace")
	require.ErrorContains(t, err, "failed to open trace")

	// Default 6 MiB arena: nothing gets evicted.
	_, err = runCLI(t, "run", testdataPath(t, "level.trace"))
	require.ErrorContains(t, err, `"sfx1" is live`)
}

func TestCheckCommand(t *testing.T) {
	out, err := runCLI(t, "check", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	require.Contains(t, out, "heap OK after 13 steps (4 blocks)")

	out, err = runCLI(t, "check", "--check-each=false", "--json", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, true, got["ok"])
	require.EqualValues(t, 4, got["blocks"])
}

func TestDumpCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "every block",
			args:        nil,
			wantContain: []string{"zone size: 32768", "owner:unowned", "owner:free", "tag:static"},
		},
		{
			name:           "static only",
			args:           []string{"--low", "static", "--high", "static"},
			wantContain:    []string{"tag range: static to static", "tag:static"},
			wantNotContain: []string{"owner:free"},
		},
		{
			name:        "numeric bounds",
			args:        []string{"--low", "0", "--high", "0"},
			wantContain: []string{"owner:free"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"dump", "--size", "32768"}, tt.args...)
			args = append(args, testdataPath(t, "level.trace"))
			out, err := runCLI(t, args...)
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				require.Contains(t, out, want)
			}
			for _, unwanted := range tt.wantNotContain {
				require.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestDumpCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "dump", "--json", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)

	var snap struct {
		Size   int `json:"size"`
		Blocks []struct {
			Offset int    `json:"offset"`
			Tag    string `json:"tag"`
			Free   bool   `json:"free"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	require.Equal(t, 32768, snap.Size)
	require.Len(t, snap.Blocks, 4)
	require.Equal(t, "static", snap.Blocks[0].Tag)
	require.True(t, snap.Blocks[1].Free)
	require.Equal(t, 1048, snap.Blocks[1].Offset)
}

func TestDumpCommand_BadTag(t *testing.T) {
	_, err := runCLI(t, "dump", "--low", "forever", testdataPath(t, "level.trace"))
	require.ErrorContains(t, err, "unknown tag")
}

func TestStatsCommand(t *testing.T) {
	out, err := runCLI(t, "stats", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	require.Contains(t, out, "Evictions:")
	require.Contains(t, out, "Malloc calls:")

	out, err = runCLI(t, "stats", "--json", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.EqualValues(t, 6, got["malloc_calls"])
	require.EqualValues(t, 2, got["evictions"])
}

func TestStatsCommand_Prometheus(t *testing.T) {
	out, err := runCLI(t, "stats", "--prom", "--zone-label", "main", "--size", "32768", testdataPath(t, "level.trace"))
	require.NoError(t, err)
	require.Contains(t, out, "# TYPE zone_evictions_total counter")
	require.Contains(t, out, `zone_evictions_total{zone="main"} 2`)
	require.Contains(t, out, `zone_arena_bytes{zone="main"} 32768`)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "zonectl dev")
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "dev", got["version"])
	require.NotEmpty(t, got["go"])
}
