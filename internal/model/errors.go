package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. The typed errors below match
// the sentinel of their failure kind, so callers can test the kind
// without caring about the concrete type.
var (
	ErrUsage          = errors.New("usage error")
	ErrPathNotFound   = errors.New("path not found or not a directory")
	ErrSpawnFailed    = errors.New("build process could not be started")
	ErrWaitFailed     = errors.New("build process could not be waited on")
	ErrBuildFailed    = errors.New("build process exited with non-zero status")
	ErrSourceNotFound = errors.New("build output not found")
	ErrDeleteFailed   = errors.New("failed to delete existing deployment")
	ErrMoveFailed     = errors.New("failed to move build output")
	ErrInvalidTarget  = errors.New("invalid deployment target name")
)

// UsageError means the run was invoked without enough input to do any
// work. It aborts the whole run before any filesystem or subprocess call.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Is matches ErrUsage.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// PathError means a required directory is missing or is not a directory.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, ErrPathNotFound)
}

// Is matches ErrPathNotFound.
func (e *PathError) Is(target error) bool {
	return target == ErrPathNotFound
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ExecutionError means a build command could not be run to a successful
// completion. Kind is one of ErrSpawnFailed, ErrWaitFailed or
// ErrBuildFailed.
type ExecutionError struct {
	Kind     error
	Command  string
	ExitCode int
	Err      error
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %s", e.Kind, e.Command)
	if errors.Is(e.Kind, ErrBuildFailed) {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is matches the failure kind.
func (e *ExecutionError) Is(target error) bool {
	return target == e.Kind
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// DeploymentError is reported per application and never aborts sibling
// applications or the other category. Kind is one of ErrSourceNotFound,
// ErrDeleteFailed, ErrMoveFailed or ErrInvalidTarget.
type DeploymentError struct {
	Kind error
	App  string
	Path string
	Err  error
}

func (e *DeploymentError) Error() string {
	msg := fmt.Sprintf("deploy %q: %v: %s", e.App, e.Kind, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the failure kind.
func (e *DeploymentError) Is(target error) bool {
	return target == e.Kind
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// ExitCode defines the CLI exit codes. Scripts and CI jobs can use them
// to tell a bad invocation apart from a failed build or deployment.
type ExitCode int

const (
	// ExitSuccess indicates every build and deployment succeeded.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUsageError indicates missing or invalid input (no application
	// names, no frontend path, unreadable config file).
	ExitUsageError ExitCode = 2

	// ExitBuildFailed indicates at least one category's build failed.
	ExitBuildFailed ExitCode = 3

	// ExitDeploymentFailed indicates at least one application could not
	// be deployed.
	ExitDeploymentFailed ExitCode = 4

	// ExitRestartFailed indicates the post-deploy container restart failed.
	ExitRestartFailed ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

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

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
