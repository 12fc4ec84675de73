// Package correlate implements port-to-owner correlation for the
// portwho CLI.
//
// Each listening socket is classified by its owning process name: the
// fixed docker-proxy identifier marks container ownership, everything
// else is a system process. Container-owned sockets are resolved to a
// container name by matching the proxy's -host-port/-container-port
// argument values against the published mappings reported by the
// container runtime. Resolution failures degrade to a placeholder name
// and never abort the run.
//
// Classified sockets aggregate into service entries keyed by
// (port, name, kind), with pid and protocol sets unioned across the
// raw sockets that share a key.
package correlate
