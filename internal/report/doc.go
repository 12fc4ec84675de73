// Package report implements presentation for the portwho CLI.
//
// It flattens the correlator's entry map into a total order (port,
// then name, then kind) and renders one two-line block per entry. The
// ordering guarantee matters: the report is the tool's only output,
// and byte-identical runs over identical captured input are part of
// its contract.
package report
