package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "eegraph", cmd.Use)
	assert.Contains(t, cmd.Long, "CUE")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"catalog"},
		{"catalog", "compile"},
		{"catalog", "validate"},
		{"catalog", "list"},
		{"catalog", "show"},
		{"encode"},
		{"test"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		path  []string
		flags []string
	}{
		{[]string{"catalog", "compile"}, []string{"output", "db"}},
		{[]string{"catalog", "list"}, []string{"db"}},
		{[]string{"catalog", "show"}, []string{"db"}},
		{[]string{"encode"}, []string{"date", "now", "list", "tz", "method", "args", "cast", "cloud", "no-compound", "no-optimize", "catalog", "db"}},
		{[]string{"test"}, []string{"update", "filter"}},
	}

	cmd := NewRootCommand()
	for _, tt := range tests {
		sub, _, err := cmd.Find(tt.path)
		require.NoError(t, err)
		for _, name := range tt.flags {
			assert.NotNil(t, sub.Flags().Lookup(name), "%v --%s", tt.path, name)
		}
	}
}

func TestFormatValidation(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"text", true},
		{"json", true},
		{"xml", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, isValidFormat(tt.format), tt.format)
	}
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(t, "--format", "xml", "encode", "--date", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootOptionsNowDefaultsToWallClock(t *testing.T) {
	opts := &RootOptions{}
	assert.False(t, opts.now().IsZero())
}
