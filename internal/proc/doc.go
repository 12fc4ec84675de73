// Package proc implements process argument inspection for the portwho
// CLI.
//
// Container resolution needs the full argument vector of a docker-proxy
// process to recover its -host-port and -container-port values. The
// primary mechanism is the portable `ps -o args= -p <pid>` invocation;
// hosts with a reduced ps fall back to reading the process table via
// gopsutil. Both failing is reported as an ordinary error — the caller
// degrades that socket's resolution and moves on.
package proc
