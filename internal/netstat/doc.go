// Package netstat implements socket enumeration for the portwho CLI.
//
// It invokes the system netstat tool once per run (`sudo netstat -nltp`,
// dropping the sudo prefix when already root) and parses the columnar
// output into model.ListeningSocket values. Parsing is forgiving: any
// row that does not carry a complete socket line (headers, ownerless
// sockets, truncated columns) is skipped rather than failing the run.
//
// Only two conditions are fatal, and both surface as model.CLIError:
// the netstat binary being absent (tool-not-found) and privilege
// escalation being unavailable or refused (permission).
package netstat
