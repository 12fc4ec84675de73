// cli.go implements the default container listing backend: a
// `docker ps` invocation with a fixed two-column format, parsed into
// the same published-port shape the API backend produces.
package docker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// listingFormat is the fixed docker ps format: container name and
// published ports column, tab-separated.
const listingFormat = "{{.Names}}\t{{.Ports}}"

// CLILister lists running containers by shelling out to the docker CLI.
// It satisfies the correlator's container lister dependency.
//
// The run function is held as a field so tests can substitute captured
// output for a live daemon.
type CLILister struct {
	run func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// NewCLILister creates a CLILister that invokes the real docker binary.
func NewCLILister() *CLILister {
	return &CLILister{run: runCommand}
}

// ListPublished runs `docker ps --format '{{.Names}}\t{{.Ports}}'` and
// parses each output line into a container with its published mappings.
// An error means the command itself failed; callers degrade container
// resolution on it rather than aborting.
func (l *CLILister) ListPublished(ctx context.Context) ([]model.ContainerPublished, error) {
	stdout, stderr, err := l.run(ctx, "docker", "ps", "--format", listingFormat)
	if err != nil {
		if detail := strings.TrimSpace(stderr); detail != "" {
			return nil, fmt.Errorf("docker ps failed: %s: %w", detail, err)
		}
		return nil, fmt.Errorf("docker ps failed: %w", err)
	}

	containers := parseListing(stdout)
	logrus.Debugf("docker ps listed %d running containers", len(containers))
	return containers, nil
}

// parseListing parses the two-column listing. Lines without the tab
// separator are skipped: a running container always produces one, even
// with an empty ports column.
func parseListing(output string) []model.ContainerPublished {
	var containers []model.ContainerPublished
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		name, ports, found := strings.Cut(line, "\t")
		if !found || name == "" {
			continue
		}
		containers = append(containers, model.ContainerPublished{
			Name:     name,
			Mappings: ParsePublishedPorts(ports),
		})
	}
	return containers
}

// ParsePublishedPorts parses a docker ps Ports column into
// host/container port pairs.
//
// The column is a comma-separated list. Published entries look like
// "0.0.0.0:8080->80/tcp"; the host port is the token after the last
// colon of the left side, the container port is the right side with
// its "/proto" suffix stripped. Entries without "->" are internal-only
// ports ("5432/tcp") and are ignored, as are entries whose left side
// carries no colon at all.
func ParsePublishedPorts(column string) []model.PortMapping {
	var mappings []model.PortMapping
	for _, entry := range strings.Split(column, ",") {
		hostPart, containerPart, found := strings.Cut(strings.TrimSpace(entry), "->")
		if !found {
			continue
		}

		colon := strings.LastIndex(hostPart, ":")
		if colon < 0 {
			continue
		}
		hostPort := hostPart[colon+1:]

		containerPort := containerPart
		if cut := strings.Index(containerPort, "/"); cut >= 0 {
			containerPort = containerPort[:cut]
		}

		mappings = append(mappings, model.PortMapping{
			HostPort:      hostPort,
			ContainerPort: containerPort,
		})
	}
	return mappings
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
