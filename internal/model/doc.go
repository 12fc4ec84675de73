// Package model defines the domain types and value objects for the
// portwho CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (ListeningSocket, ServiceEntry, ContainerPublished,
// Resolution) are transient representations rebuilt from command output
// on every run — there are no persistent state files.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that classifies fatal errors by kind while keeping the
// single-failure-code exit contract.
package model
