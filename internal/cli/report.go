// Package cli — report.go implements the port report run by the root command.
//
// The report is the tool's only operation. It orchestrates the full
// pipeline:
//  1. Enumerate listening TCP sockets via netstat (the privileged step)
//  2. Correlate each socket with its owning process or container
//  3. Render the grouped report to stdout
package cli

import (
	"context"
	"io"

	"github.com/mmr-tortoise/portwho/internal/correlate"
	"github.com/mmr-tortoise/portwho/internal/docker"
	"github.com/mmr-tortoise/portwho/internal/netstat"
	"github.com/mmr-tortoise/portwho/internal/proc"
	"github.com/mmr-tortoise/portwho/internal/report"
)

// reportFlags holds the flag values for the root command.
// These are bound to cobra flags in NewRootCommand.
type reportFlags struct {
	verbose   bool // --verbose: show diagnostics for degraded lookups
	dockerAPI bool // --docker-api: use the Engine API instead of the docker CLI
}

// runReport is the orchestration function for the report.
// It coordinates the pipeline steps and writes the report to out.
func runReport(ctx context.Context, flags *reportFlags, out io.Writer) error {
	// Step 1: Enumerate listening sockets. This is the only step that
	// can fail the run; netstat output is useless without socket owners,
	// and owners are only visible to root.
	sockets, err := netstat.NewEnumerator().Enumerate(ctx)
	if err != nil {
		return err
	}

	// Step 2: Correlate sockets with owners. The docker CLI backend is
	// the default; --docker-api swaps in the Engine API. Container
	// lookups that fail degrade to a placeholder name instead of
	// failing the run.
	var containers correlate.ContainerLister = docker.NewCLILister()
	if flags.dockerAPI {
		containers = docker.NewAPILister()
	}
	correlator := correlate.New(proc.NewPS(), containers)
	entries := correlator.Correlate(ctx, sockets)

	// Step 3: Render the report grouped by port.
	return report.Render(out, entries)
}
