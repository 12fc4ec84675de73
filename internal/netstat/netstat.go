// Package netstat enumerates listening TCP sockets by running the system
// netstat tool and parsing its columnar output.
//
// The listing needs elevated privileges: socket owner pids are invisible
// to unprivileged users, and without them the rest of the pipeline has
// nothing to correlate.
package netstat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/portwho/internal/model"
)

const (
	// listingColumns is the number of columns in a complete listing row:
	// Proto, Recv-Q, Send-Q, Local Address, Foreign Address, State,
	// PID/Program name. Rows with fewer columns are incomplete and skipped.
	listingColumns = 7

	// maxPort is the highest valid TCP port number (2^16 - 1).
	maxPort = 65535
)

// Enumerator runs the socket listing command and parses its output into
// listening sockets.
//
// The command plumbing (lookPath, run, euid) is held as function fields
// so tests can substitute captured output for live commands.
type Enumerator struct {
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	euid     func() int
}

// NewEnumerator creates an Enumerator wired to the real OS: exec.LookPath
// for command resolution and a fresh netstat invocation per Enumerate call.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		lookPath: exec.LookPath,
		run:      runCommand,
		euid:     os.Geteuid,
	}
}

// Enumerate invokes `netstat -nltp` (numeric, listening, TCP, with
// process owners) exactly once and returns every parseable socket row.
//
// Privilege handling:
//   - running as root: netstat is invoked directly
//   - otherwise: the invocation is prefixed with sudo; a missing sudo
//     binary or a non-zero exit is a fatal permission error
//
// A missing netstat binary is a fatal tool-not-found error naming the
// package that provides it. There are no retries.
func (e *Enumerator) Enumerate(ctx context.Context) ([]model.ListeningSocket, error) {
	if _, err := e.lookPath("netstat"); err != nil {
		return nil, model.WrapCLIError(model.ErrorKindToolNotFound,
			"netstat not found: install the net-tools package", err)
	}

	name := "netstat"
	args := []string{"-nltp"}
	if e.euid() != 0 {
		if _, err := e.lookPath("sudo"); err != nil {
			return nil, model.WrapCLIError(model.ErrorKindPermission,
				"listing socket owners requires root: run as root or install sudo", err)
		}
		name = "sudo"
		args = []string{"netstat", "-nltp"}
	}

	logrus.Debugf("running %s %s", name, strings.Join(args, " "))

	stdout, stderr, err := e.run(ctx, name, args...)
	if err != nil {
		message := "netstat failed: listing socket owners was refused"
		if detail := strings.TrimSpace(stderr); detail != "" {
			message = fmt.Sprintf("%s: %s", message, detail)
		}
		return nil, model.WrapCLIError(model.ErrorKindPermission, message, err)
	}

	sockets := Parse(stdout)
	logrus.Debugf("parsed %d listening sockets", len(sockets))
	return sockets, nil
}

// Parse extracts listening sockets from raw netstat output. Rows that do
// not form a complete socket line are skipped silently; the two header
// lines netstat prints fall out under the same rules, so there is no
// line-count special casing.
func Parse(output string) []model.ListeningSocket {
	var sockets []model.ListeningSocket
	for _, line := range strings.Split(output, "\n") {
		socket, ok := parseLine(line)
		if !ok {
			continue
		}
		sockets = append(sockets, socket)
	}
	return sockets
}

// parseLine parses one listing row into a socket. It reports ok=false
// for incomplete rows, non-numeric or out-of-range ports, and owner
// columns without a pid/name pair.
func parseLine(line string) (model.ListeningSocket, bool) {
	columns := splitColumns(line, listingColumns)
	if len(columns) < listingColumns {
		return model.ListeningSocket{}, false
	}

	port, ok := parsePort(columns[3])
	if !ok {
		return model.ListeningSocket{}, false
	}

	pid, process, ok := parseOwner(columns[6])
	if !ok {
		return model.ListeningSocket{}, false
	}

	return model.ListeningSocket{
		Protocol: columns[0],
		Port:     port,
		PID:      pid,
		Process:  process,
	}, true
}

// splitColumns splits a line on runs of spaces and tabs into at most max
// columns. The final column keeps the rest of the line verbatim (leading
// separators trimmed), preserving embedded whitespace in the program
// column — sshd rows look like "1234/sshd: user@pts/0".
func splitColumns(line string, max int) []string {
	var columns []string
	rest := line
	for len(columns) < max-1 {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return columns
		}
		cut := strings.IndexAny(rest, " \t")
		if cut < 0 {
			return append(columns, rest)
		}
		columns = append(columns, rest[:cut])
		rest = rest[cut+1:]
	}
	if rest = strings.TrimLeft(rest, " \t"); rest != "" {
		columns = append(columns, rest)
	}
	return columns
}

// parsePort extracts the port from the local address column: everything
// after the final colon. Address formats vary (0.0.0.0:22, :::8080,
// 127.0.0.1:631) and the last-colon rule covers them all, IPv6
// wildcards included.
func parsePort(localAddr string) (int, bool) {
	idx := strings.LastIndex(localAddr, ":")
	port, err := strconv.Atoi(localAddr[idx+1:])
	if err != nil || port < 1 || port > maxPort {
		return 0, false
	}
	return port, true
}

// parseOwner splits the pid/program column on its first slash. Rows
// whose owner is invisible show "-" here and carry no slash, so they
// are skipped along with anything else missing a pid or a name. The
// name is truncated at the first colon: netstat appends session detail
// for processes like sshd.
func parseOwner(column string) (pid, process string, ok bool) {
	idx := strings.Index(column, "/")
	if idx < 0 {
		return "", "", false
	}
	pid = strings.TrimSpace(column[:idx])
	process = column[idx+1:]
	if cut := strings.Index(process, ":"); cut >= 0 {
		process = process[:cut]
	}
	process = strings.TrimSpace(process)
	if pid == "" || process == "" {
		return "", "", false
	}
	return pid, process, true
}

// runCommand executes a command and captures stdout and stderr
// separately, so stderr can be included in error messages while the
// parser receives stdout alone.
func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
