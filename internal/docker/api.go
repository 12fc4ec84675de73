// api.go implements the Docker Engine API backend for container
// listing. Containers and their published ports are fetched through the
// SDK client and converted into the same shape the CLI backend parses
// out of `docker ps`, so correlation behaves identically on both.
package docker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	// Docker API types for container listing results.
	// types.Container is the struct returned by ContainerList.
	"github.com/docker/docker/api/types"

	// container package provides ListOptions for container listing.
	"github.com/docker/docker/api/types/container"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// APILister lists running containers through the Docker Engine API.
// It satisfies the correlator's container lister dependency.
//
// A fresh client is created per ListPublished call and closed before
// returning: the query runs once per resolution, exactly like the
// per-call `docker ps` of the CLI backend, and a missing daemon
// degrades that resolution instead of poisoning a long-lived client.
type APILister struct {
	newClient func() (*Client, error)
}

// NewAPILister creates an APILister wired to real client construction
// with socket detection.
func NewAPILister() *APILister {
	return &APILister{newClient: NewClient}
}

// ListPublished returns every running container with its published port
// mappings. Unpublished (exposed-only) ports are left out, mirroring
// the mapping column of `docker ps`.
func (l *APILister) ListPublished(ctx context.Context) ([]model.ContainerPublished, error) {
	cli, err := l.newClient()
	if err != nil {
		return nil, fmt.Errorf("connecting to Docker: %w", err)
	}
	defer cli.Close()

	if err := cli.Ping(ctx); err != nil {
		return nil, err
	}

	// Default ListOptions match `docker ps`: running containers only.
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	result := make([]model.ContainerPublished, 0, len(containers))
	for _, c := range containers {
		published, ok := summaryToPublished(c)
		if !ok {
			continue
		}
		result = append(result, published)
	}
	return result, nil
}

// summaryToPublished converts a Docker API container summary to the
// domain type. This is a pure mapping function with no side effects.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g., "/my-container"), which we strip to match docker CLI output.
// Nameless summaries cannot be reported on and are dropped.
func summaryToPublished(c types.Container) (model.ContainerPublished, bool) {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}
	if name == "" {
		return model.ContainerPublished{}, false
	}

	published := model.ContainerPublished{Name: name}
	for _, p := range c.Ports {
		// PublicPort 0 means the port is exposed but not published to
		// the host; no docker-proxy exists for it.
		if p.PublicPort == 0 {
			continue
		}
		published.Mappings = append(published.Mappings, model.PortMapping{
			HostPort:      strconv.Itoa(int(p.PublicPort)),
			ContainerPort: strconv.Itoa(int(p.PrivatePort)),
		})
	}
	return published, true
}
