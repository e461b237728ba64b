package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/shinji-kodama/angular-deploy/internal/command"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Executor runs build commands as shell subprocesses.
type Executor struct {
	// Stdout and Stderr receive the build tool's output. They default to
	// the process's own streams so the build log stays visible.
	Stdout io.Writer
	Stderr io.Writer

	// Shell overrides the platform shell. When set, the command runs as
	// "<Shell> <ShellFlag> <line>".
	Shell     string
	ShellFlag string

	goos   string
	logger *slog.Logger
}

// New returns an Executor for the current platform.
func New(logger *slog.Logger) *Executor {
	return &Executor{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		goos:   runtime.GOOS,
		logger: logger,
	}
}

// Run executes cmd in workingDir and blocks until it exits.
//
// It returns the subprocess exit code together with:
//   - *model.PathError if workingDir is missing or not a directory
//   - *model.ExecutionError (ErrSpawnFailed) if the shell cannot be started
//   - *model.ExecutionError (ErrWaitFailed) if the process cannot be waited on
//   - *model.ExecutionError (ErrBuildFailed) if the process exits non-zero
//
// The exit code is -1 when the process never produced one.
func (e *Executor) Run(ctx context.Context, cmd command.CommandLine, workingDir string) (int, error) {
	info, err := os.Stat(workingDir)
	if err != nil {
		return -1, &model.PathError{Op: "build in", Path: workingDir, Err: err}
	}
	if !info.IsDir() {
		return -1, &model.PathError{Op: "build in", Path: workingDir}
	}

	name, args := e.invocation(cmd)
	line := cmd.Render(e.goos)

	// #nosec G204 -- running the synthesized build command is the purpose of this tool
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = workingDir
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr

	e.logger.Info("Running build command", "command", line, "dir", workingDir)
	started := time.Now()

	if err := c.Start(); err != nil {
		return -1, &model.ExecutionError{Kind: model.ErrSpawnFailed, Command: line, ExitCode: -1, Err: err}
	}

	if err := c.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			e.logger.Error("Build command failed",
				"command", line, "exit_code", code, "duration", time.Since(started).Round(time.Millisecond))
			return code, &model.ExecutionError{Kind: model.ErrBuildFailed, Command: line, ExitCode: code}
		}
		return -1, &model.ExecutionError{Kind: model.ErrWaitFailed, Command: line, ExitCode: -1, Err: err}
	}

	e.logger.Info("Build command finished",
		"command", line, "exit_code", 0, "duration", time.Since(started).Round(time.Millisecond))
	return 0, nil
}

// invocation picks the shell program and arguments for cmd.
func (e *Executor) invocation(cmd command.CommandLine) (string, []string) {
	if e.Shell != "" {
		return e.Shell, []string{e.ShellFlag, cmd.Render(e.goos)}
	}
	return cmd.ShellInvocation(e.goos)
}
