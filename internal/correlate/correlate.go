// Package correlate classifies listening sockets by owner and
// aggregates them into report entries.
//
// A socket owned by the docker-proxy process is traced back to its
// container through the proxy's own command-line arguments; every
// other socket is attributed to the owning system process as-is.
package correlate

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// proxyProcessName is the fixed process name that marks a socket as
// container-owned: docker-proxy is the userland forwarder dockerd
// starts for each published port.
const proxyProcessName = "docker-proxy"

// Flags of the docker-proxy argument vector that carry the forwarded
// port pair.
const (
	hostPortFlag      = "-host-port"
	containerPortFlag = "-container-port"
)

// ArgsSource fetches the argument tokens of a process by pid.
type ArgsSource interface {
	Args(ctx context.Context, pid string) ([]string, error)
}

// ContainerLister reports running containers with their published port
// mappings.
type ContainerLister interface {
	ListPublished(ctx context.Context) ([]model.ContainerPublished, error)
}

// Correlator maps listening sockets to their owners. The two
// collaborators are injected as interfaces so tests can drive the
// correlation from captured tool output, and so the CLI can choose
// between the docker CLI and Engine API backends.
type Correlator struct {
	args       ArgsSource
	containers ContainerLister
}

// New creates a Correlator with the given argument source and
// container lister. Neither may be nil.
func New(args ArgsSource, containers ContainerLister) *Correlator {
	return &Correlator{args: args, containers: containers}
}

// Correlate maps each socket to its owner and merges the results into
// service entries keyed by (port, name, kind). Sockets sharing a key
// (typically the IPv4 and IPv6 listeners of one service) union their
// pid and protocol sets into a single entry.
//
// The map is built fresh per call and returned to the caller; the
// correlator holds no state between runs.
func (c *Correlator) Correlate(ctx context.Context, sockets []model.ListeningSocket) map[model.ServiceKey]*model.ServiceEntry {
	entries := make(map[model.ServiceKey]*model.ServiceEntry)

	for _, socket := range sockets {
		key, internalPort := c.classify(ctx, socket)

		entry, ok := entries[key]
		if !ok {
			entry = model.NewServiceEntry(key)
			// The first resolution for a key supplies the internal
			// port; later sockets merging into the entry cannot
			// change it.
			entry.InternalPort = internalPort
			entries[key] = entry
		}
		entry.Observe(socket.PID, socket.Protocol)
	}

	return entries
}

// classify determines the owner of one socket. System processes keep
// their process name with no lookup; docker-proxy sockets go through
// container resolution.
func (c *Correlator) classify(ctx context.Context, socket model.ListeningSocket) (model.ServiceKey, string) {
	if socket.Process != proxyProcessName {
		key := model.ServiceKey{Port: socket.Port, Name: socket.Process, Kind: model.OwnerSystem}
		return key, ""
	}

	res := c.resolve(ctx, socket.PID)
	key := model.ServiceKey{Port: socket.Port, Name: res.Name, Kind: model.OwnerContainer}
	return key, res.InternalPort
}

// resolve traces a docker-proxy pid back to its container:
//
//  1. fetch the proxy's argument vector
//  2. scan it for the -host-port and -container-port values
//  3. list running containers with their published mappings
//  4. return the first container whose mappings contain the pair
//
// Any step failing degrades to the placeholder resolution. Degradation
// logs at debug level only and never fails the run.
func (c *Correlator) resolve(ctx context.Context, pid string) model.Resolution {
	tokens, err := c.args.Args(ctx, pid)
	if err != nil {
		logrus.Debugf("resolution for pid %s degraded: %v", pid, err)
		return model.DegradedResolution()
	}

	hostPort, containerPort, ok := proxyPorts(tokens)
	if !ok {
		logrus.Debugf("resolution for pid %s degraded: proxy port flags missing", pid)
		return model.DegradedResolution()
	}

	containers, err := c.containers.ListPublished(ctx)
	if err != nil {
		logrus.Debugf("resolution for pid %s degraded: %v", pid, err)
		return model.DegradedResolution()
	}

	for i := range containers {
		if containers[i].HasMapping(hostPort, containerPort) {
			return model.Resolution{
				Name:         containers[i].Name,
				InternalPort: containerPort,
				Resolved:     true,
			}
		}
	}

	logrus.Debugf("resolution for pid %s degraded: no container publishes %s->%s",
		pid, hostPort, containerPort)
	return model.DegradedResolution()
}

// proxyPorts scans an argument vector for the -host-port and
// -container-port values. The value is the token immediately following
// the flag; if a flag repeats, the last occurrence wins. Both flags
// must be present with non-empty values.
func proxyPorts(tokens []string) (hostPort, containerPort string, ok bool) {
	for i, token := range tokens {
		if i+1 >= len(tokens) {
			break
		}
		switch token {
		case hostPortFlag:
			hostPort = tokens[i+1]
		case containerPortFlag:
			containerPort = tokens[i+1]
		}
	}
	return hostPort, containerPort, hostPort != "" && containerPort != ""
}
