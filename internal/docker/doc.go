// Package docker provides the container runtime queries for the
// portwho CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS)
//   - listing running containers with their published port mappings,
//     either by shelling out to `docker ps` (CLILister, the default)
//     or through the Docker Engine API (APILister)
//   - parsing the `docker ps` Ports column into host/container pairs
//
// Both listers produce identical results for the same runtime state,
// and both report failures as ordinary errors: the correlation step
// degrades the affected resolution instead of aborting the run.
//
// The API backend uses github.com/docker/docker/client as the
// underlying Docker SDK, with version negotiation enabled for broad
// compatibility.
package docker
