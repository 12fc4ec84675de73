// Package model defines the domain types for the portwho CLI.
//
// All entities in this package are transient: they are reconstructed on
// every run from the output of external commands (netstat, ps, docker)
// and discarded when the process exits. Nothing is persisted.
package model

import (
	"fmt"
	"sort"
)

// OwnerKind classifies who answers on a listening port: a plain host
// process or a Docker container reached through its docker-proxy.
type OwnerKind string

const (
	// OwnerSystem indicates an ordinary host process owns the socket.
	OwnerSystem OwnerKind = "system"

	// OwnerContainer indicates the socket belongs to a docker-proxy
	// process forwarding into a container.
	OwnerContainer OwnerKind = "container"
)

// String returns the string representation of OwnerKind.
func (k OwnerKind) String() string {
	return string(k)
}

// IsValid checks whether the OwnerKind value is one of the
// predefined valid kinds.
func (k OwnerKind) IsValid() bool {
	switch k {
	case OwnerSystem, OwnerContainer:
		return true
	default:
		return false
	}
}

// Tag returns the bracketed owner marker used in report output:
// "[Docker]" for container owners, "[System]" for everything else.
func (k OwnerKind) Tag() string {
	if k == OwnerContainer {
		return "[Docker]"
	}
	return "[System]"
}

// ListeningSocket is one successfully parsed row of the socket listing:
// a TCP socket in LISTEN state together with the process that owns it.
//
// PID stays a string end to end. The correlation steps compare raw
// tokens from different tools (netstat, ps, docker), and string
// identity is the contract between them.
type ListeningSocket struct {
	// Protocol is the address family column as reported by the
	// listing tool ("tcp" or "tcp6").
	Protocol string

	// Port is the local port extracted from the address column (1-65535).
	Port int

	// PID is the owning process id, verbatim from the pid/name column.
	PID string

	// Process is the short process name, truncated at the first colon
	// (netstat appends connection details for processes like sshd).
	Process string
}

// ServiceKey is the aggregation key for report entries. Sockets that
// share a port, a resolved owner name and an owner kind collapse into
// a single ServiceEntry.
type ServiceKey struct {
	Port int
	Name string
	Kind OwnerKind
}

// ServiceEntry is one line of the final report: an owner on a port,
// accumulated over every raw socket that mapped to the same key
// (typically the IPv4 and IPv6 listeners of one service).
type ServiceEntry struct {
	// Port is the host port the entry reports on.
	Port int

	// Name is the resolved owner name: the process name for system
	// entries, the container name (or the unknown-container
	// placeholder) for container entries.
	Name string

	// Kind distinguishes system processes from containers.
	Kind OwnerKind

	// PIDs is the set of process ids observed for this entry.
	PIDs map[string]struct{}

	// Protocols is the set of protocol strings observed for this entry.
	Protocols map[string]struct{}

	// InternalPort is the container-side port token from the first
	// successful resolution. Empty for system entries and for degraded
	// container resolutions.
	InternalPort string
}

// NewServiceEntry creates an empty entry for the given key.
func NewServiceEntry(key ServiceKey) *ServiceEntry {
	return &ServiceEntry{
		Port:      key.Port,
		Name:      key.Name,
		Kind:      key.Kind,
		PIDs:      make(map[string]struct{}),
		Protocols: make(map[string]struct{}),
	}
}

// Observe records one raw socket occurrence: the pid and protocol sets
// union, so repeated listeners never duplicate report output.
func (e *ServiceEntry) Observe(pid, protocol string) {
	e.PIDs[pid] = struct{}{}
	e.Protocols[protocol] = struct{}{}
}

// SortedPIDs returns the observed process ids in lexicographic order.
// PIDs are opaque strings here, so "9" sorts after "10".
func (e *ServiceEntry) SortedPIDs() []string {
	return sortedSet(e.PIDs)
}

// SortedProtocols returns the observed protocols in lexicographic order.
func (e *ServiceEntry) SortedProtocols() []string {
	return sortedSet(e.Protocols)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// UnknownContainerName is the placeholder owner name reported when a
// docker-proxy process cannot be traced back to a container.
const UnknownContainerName = "unknown container"

// Resolution is the outcome of tracing a docker-proxy pid back to its
// container. Resolved distinguishes a real match from the degraded
// placeholder, so callers never have to infer the difference from
// error values or sentinel strings.
type Resolution struct {
	// Name is the container name, or UnknownContainerName when degraded.
	Name string

	// InternalPort is the container-side port token from the matched
	// mapping. Empty when degraded.
	InternalPort string

	// Resolved is true only when a published mapping matched the
	// proxy's port arguments.
	Resolved bool
}

// DegradedResolution returns the placeholder resolution substituted
// when any resolution step fails. Degradation is never an error: the
// report still lists the port, just without a container name.
func DegradedResolution() Resolution {
	return Resolution{Name: UnknownContainerName}
}

// PortMapping is one published port pair of a container. Both sides
// stay strings: they are matched verbatim against the -host-port and
// -container-port argument values of the docker-proxy process.
type PortMapping struct {
	// HostPort is the host-side port token (after the last colon of
	// the host address).
	HostPort string

	// ContainerPort is the container-side port token (before the
	// protocol suffix).
	ContainerPort string
}

// ContainerPublished is a running container together with its published
// port mappings, as reported by the container runtime.
type ContainerPublished struct {
	// Name is the container name without any leading slash.
	Name string

	// Mappings holds every published host-to-container port pair.
	// Internal-only ports do not appear here.
	Mappings []PortMapping
}

// HasMapping reports whether the container publishes the exact
// host/container port pair, compared as strings.
func (c *ContainerPublished) HasMapping(hostPort, containerPort string) bool {
	for _, m := range c.Mappings {
		if m.HostPort == hostPort && m.ContainerPort == containerPort {
			return true
		}
	}
	return false
}

// ExitCode defines the CLI exit codes. The tool distinguishes only
// success and failure: every fatal error, whatever its kind, exits 1.
type ExitCode int

const (
	// ExitSuccess indicates the report was produced.
	ExitSuccess ExitCode = 0

	// ExitFailure indicates a fatal error terminated the run.
	ExitFailure ExitCode = 1
)

// ErrorKind classifies fatal errors for messaging and tests. Kinds do
// not map to distinct exit codes.
type ErrorKind string

const (
	// ErrorKindPermission indicates privilege escalation was
	// unavailable or refused.
	ErrorKindPermission ErrorKind = "permission"

	// ErrorKindToolNotFound indicates a required external command is
	// not installed.
	ErrorKindToolNotFound ErrorKind = "tool-not-found"

	// ErrorKindGeneral covers every other fatal error.
	ErrorKindGeneral ErrorKind = "general"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// IsValid checks whether the ErrorKind value is one of the
// predefined valid kinds.
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindPermission, ErrorKindToolNotFound, ErrorKindGeneral:
		return true
	default:
		return false
	}
}

// CLIError is a custom error type that carries an error kind.
// This allows the CLI layer to print a classified message while still
// exiting with the single failure code.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given kind and message.
func NewCLIError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Kind: kind, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Message: message, Err: err}
}
