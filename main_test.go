package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		input, format, want string
	}{
		{"index.md", "html", "index.html"},
		{"docs/survey.form.md", "json", "docs/survey.form.json"},
		{"survey", "html", "survey.html"},
	}
	for _, tt := range tests {
		if got := outputName(tt.input, tt.format); got != tt.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestBuildAndWrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "survey.md")
	require.NoError(t, os.WriteFile(input, []byte("# Hello\n\nname = TextInput()\n"), 0664))

	opts := &options{
		input:  input,
		output: filepath.Join(dir, "survey.json"),
		format: "json",
		prefix: "fr-",
	}

	t.Run("Dry run writes nothing", func(t *testing.T) {
		opts.dryrun = true
		require.NoError(t, buildAndWrite(opts, zap.NewNop().Sugar()))
		_, err := os.Stat(opts.output)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Output is written", func(t *testing.T) {
		opts.dryrun = false
		require.NoError(t, buildAndWrite(opts, zap.NewNop().Sugar()))
		out, err := os.ReadFile(opts.output)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"fieldNames": [`)
	})
}
