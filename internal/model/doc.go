// Package model defines the domain types and value objects for the
// angular-deploy CLI.
//
// This package contains pure data structures with no external dependencies:
// the Core/Portal Category variant, classified application names, build
// flags, deployment requests and the RunReport produced by a run.
//
// The package also defines the error taxonomy (UsageError, PathError,
// ExecutionError, DeploymentError), exit codes (ExitCode) and a custom
// error type (CLIError) that carries exit codes for process exit handling.
package model
