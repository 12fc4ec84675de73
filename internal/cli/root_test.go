// Package cli — root_test.go contains unit tests for command wiring and
// logging configuration.
//
// These tests verify setup logic without running netstat or touching a
// Docker daemon.
package cli

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRootCommand_Flags verifies flag registration and defaults.
func TestNewRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.Flags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	dockerAPI := cmd.Flags().Lookup("docker-api")
	require.NotNil(t, dockerAPI)
	assert.Equal(t, "false", dockerAPI.DefValue)
}

// TestNewRootCommand_Version checks the default ldflags placeholders in
// the version string.
func TestNewRootCommand_Version(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "dev (commit: none, built: unknown)", cmd.Version)
}

// TestNewRootCommand_RejectsArgs checks that positional arguments fail
// before the pipeline runs: the report always covers the whole host.
func TestNewRootCommand_RejectsArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"8080"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}

// TestConfigureLogging verifies the level switch: warnings only by
// default, the full debug stream with --verbose.
func TestConfigureLogging(t *testing.T) {
	original := logrus.GetLevel()
	defer logrus.SetLevel(original)

	configureLogging(false)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	configureLogging(true)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}
