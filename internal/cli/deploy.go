package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shinji-kodama/angular-deploy/internal/deploy"
	"github.com/shinji-kodama/angular-deploy/internal/docker"
	"github.com/shinji-kodama/angular-deploy/internal/executor"
	"github.com/shinji-kodama/angular-deploy/internal/model"
	"github.com/shinji-kodama/angular-deploy/internal/orchestrator"
	"github.com/shinji-kodama/angular-deploy/internal/vcs"
)

// runDeploy is the main logic of the root command.
//
// Steps:
//  1. Merge config file and flags
//  2. Wire the executor, mover and optional container restarter
//  3. Build and deploy Core, then Portal
//  4. Print the report and map it to an exit code
func runDeploy(ctx context.Context, flags *runFlags, changed func(string) bool) error {
	cfg, err := resolveConfig(flags, changed)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr)

	exec := executor.New(logger)
	if jsonOutput {
		// Keep stdout clean for the JSON report.
		exec.Stdout = os.Stderr
	}

	opts := []orchestrator.Option{orchestrator.WithRevisionReader(vcs.NewGit())}
	if cfg.Restart.Enabled() {
		opts = append(opts, orchestrator.WithRestarter(
			docker.NewRestarter(logger, cfg.Restart.Containers, cfg.Restart.Label)))
	}

	o := orchestrator.New(logger, exec, deploy.NewMover(logger), opts...)
	report, err := o.Run(ctx, runOptions(cfg))
	if err != nil {
		return usageError(err)
	}

	printRunReport(os.Stdout, report)

	if code := report.ExitCode(); code != model.ExitSuccess {
		return model.NewCLIError(code, failureSummary(report))
	}
	return nil
}

// failureSummary describes what went wrong in a finished run.
func failureSummary(report *model.RunReport) string {
	var parts []string
	if n := report.BuildFailures(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d build(s) failed", n))
	}
	if n := report.DeploymentFailures(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deployment(s) failed", n))
	}
	if report.RestartError != "" {
		parts = append(parts, "container restart failed: "+report.RestartError)
	}
	if len(parts) == 0 {
		return "run failed"
	}
	return strings.Join(parts, "; ")
}
