package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"mediator/internal/statuserr"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "mediator", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	for _, flag := range []string{"config", "status-file", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "persistent flag %s", flag)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "mediator version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	assert.NoError(t, testCmd.Execute())
	assert.Equal(t, "mediator version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, expected := range []string{"version", "serve", "get", "list", "set", "path"} {
		assert.True(t, found[expected], "subcommand %s should be registered", expected)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitCodeSuccess},
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{name: "no match", err: &NoMatchError{Path: "/x"}, want: ExitCodeError},
		{name: "query", err: statuserr.Query("/x[", errors.New("unbalanced")), want: ExitCodeInvalidPath},
		{name: "resolution", err: statuserr.Resolution("no node"), want: ExitCodeInvalidPath},
		{name: "io", err: statuserr.IO("load status document", errors.New("denied")), want: ExitCodeIO},
		{name: "wrapped io", err: fmt.Errorf("cmd: %w", statuserr.IO("persist", errors.New("full"))), want: ExitCodeIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
