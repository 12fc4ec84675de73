// Package proc fetches the full command-line arguments of a process by
// pid, the way `ps -o args=` reports them.
package proc

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// PS reads a process's argument tokens via `ps -o args= -p <pid>`. When
// ps fails or prints nothing (vanished pid, busybox ps without -o), it
// falls back to reading the process table directly.
//
// The command plumbing is held as function fields so tests can
// substitute captured output for live processes.
type PS struct {
	run      func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	fallback func(ctx context.Context, pid string) ([]string, error)
}

// NewPS creates a PS wired to the real OS.
func NewPS() *PS {
	return &PS{
		run:      runCommand,
		fallback: tableArgs,
	}
}

// Args returns the argument tokens of the process, whitespace-split the
// way ps prints them. An error means both mechanisms failed; callers
// treat that as a degraded lookup, never as fatal.
func (p *PS) Args(ctx context.Context, pid string) ([]string, error) {
	stdout, _, err := p.run(ctx, "ps", "-o", "args=", "-p", pid)
	if err == nil {
		if tokens := strings.Fields(stdout); len(tokens) > 0 {
			return tokens, nil
		}
	} else {
		logrus.Debugf("ps lookup for pid %s failed: %v", pid, err)
	}

	tokens, err := p.fallback(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("reading arguments of pid %s: %w", pid, err)
	}
	return tokens, nil
}

// tableArgs reads the argument vector from the process table.
func tableArgs(ctx context.Context, pid string) ([]string, error) {
	id, err := strconv.ParseInt(pid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid pid %q: %w", pid, err)
	}

	proc, err := process.NewProcessWithContext(ctx, int32(id))
	if err != nil {
		return nil, err
	}

	tokens, err := proc.CmdlineSliceWithContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("pid %s has no command line", pid)
	}
	return tokens, nil
}

// runCommand executes a command and captures stdout and stderr
// separately.
func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
