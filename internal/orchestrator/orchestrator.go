package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shinji-kodama/angular-deploy/internal/apps"
	"github.com/shinji-kodama/angular-deploy/internal/command"
	"github.com/shinji-kodama/angular-deploy/internal/deploy"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Executor runs a build command in a working directory.
type Executor interface {
	Run(ctx context.Context, cmd command.CommandLine, workingDir string) (int, error)
}

// Deployer moves one application's build output into place.
type Deployer interface {
	Deploy(req model.DeploymentRequest) (deploy.Result, error)
}

// Restarter restarts web server containers after deployment.
type Restarter interface {
	Restart(ctx context.Context) ([]string, error)
}

// RevisionReader reports the checked-out revision of a directory.
type RevisionReader interface {
	Revision(ctx context.Context, path string) (*model.Revision, error)
}

// Options is the input of a run.
type Options struct {
	FrontendRoot    string
	DestinationRoot string
	DistDir         string
	Apps            []string
	Flags           model.BuildFlags
}

// Orchestrator runs the classify, build and deploy state machine.
type Orchestrator struct {
	executor  Executor
	deployer  Deployer
	restarter Restarter
	revisions RevisionReader
	logger    *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRestarter enables the post-deploy container restart.
func WithRestarter(r Restarter) Option {
	return func(o *Orchestrator) { o.restarter = r }
}

// WithRevisionReader records the frontend revision in the report.
func WithRevisionReader(r RevisionReader) Option {
	return func(o *Orchestrator) { o.revisions = r }
}

// New returns an Orchestrator using the given executor and deployer.
func New(logger *slog.Logger, executor Executor, deployer Deployer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		executor: executor,
		deployer: deployer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run classifies opts.Apps and processes Core then Portal.
//
// The only error returned is a *model.UsageError when no application names
// remain after classification; in that case nothing has been executed or
// touched. Every other failure is recorded in the report, and the exit
// code is derived from it with RunReport.ExitCode.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*model.RunReport, error) {
	classified := apps.Classify(apps.Normalize(opts.Apps))
	if classified.IsEmpty() {
		return nil, &model.UsageError{Message: "no application names given (use -a or --appname)"}
	}

	report := &model.RunReport{
		FrontendRoot:    opts.FrontendRoot,
		DestinationRoot: opts.DestinationRoot,
		Categories:      make([]model.CategoryReport, 0, len(model.Categories)),
	}
	report.Revision = o.readRevision(ctx, opts.FrontendRoot)

	startAttrs := []any{"frontend", opts.FrontendRoot, "core", classified.Core, "portal", classified.Portal}
	if report.Revision != nil {
		startAttrs = append(startAttrs, "revision", report.Revision.String(), "repository", report.Revision.Root)
	}
	o.logger.Info("Starting deployment run", startAttrs...)

	for _, category := range model.Categories {
		report.Categories = append(report.Categories,
			o.runCategory(ctx, opts, category, classified.Names(category)))
	}

	o.restart(ctx, report)

	o.logger.Info("Deployment run finished",
		"deployed", report.Deployed(),
		"build_failures", report.BuildFailures(),
		"deployment_failures", report.DeploymentFailures())
	return report, nil
}

// runCategory builds and deploys one category.
func (o *Orchestrator) runCategory(ctx context.Context, opts Options, category model.Category, names []string) model.CategoryReport {
	cr := model.CategoryReport{Category: category, Apps: names}
	log := o.logger.With("category", category.String())

	if len(names) == 0 {
		log.Warn("No applications in category, skipping")
		cr.Status = model.BuildSkipped
		return cr
	}

	cmd := command.Synthesize(names, opts.Flags, category)
	cr.Command = cmd.String()
	multiProject := command.UsesMultiProjectTool(len(names), opts.Flags)
	log.Info("Building applications", "apps", names, "command", cr.Command, "multi_project", multiProject)

	code, err := o.executor.Run(ctx, cmd, opts.FrontendRoot)
	cr.ExitCode = code
	if err != nil {
		log.Error("Build failed, skipping deployment for category", "error", err)
		cr.Status = model.BuildFailed
		cr.Error = err.Error()
		return cr
	}
	cr.Status = model.BuildSucceeded

	if opts.DestinationRoot == "" {
		log.Info("No deploy path given, deployment skipped")
		for _, name := range names {
			cr.Deployments = append(cr.Deployments, model.DeploymentOutcome{App: name, Status: model.DeploySkipped})
		}
		return cr
	}

	for _, name := range names {
		cr.Deployments = append(cr.Deployments, o.deployApp(opts, name, multiProject))
	}
	return cr
}

// deployApp deploys a single application and records its outcome. A
// failure is logged and never stops the remaining applications.
func (o *Orchestrator) deployApp(opts Options, name string, multiProject bool) model.DeploymentOutcome {
	res, err := o.deployer.Deploy(model.DeploymentRequest{
		FrontendRoot:      opts.FrontendRoot,
		BuildOutputSubdir: opts.DistDir,
		DestinationRoot:   opts.DestinationRoot,
		ApplicationName:   name,
		MultiProjectBuild: multiProject,
	})
	outcome := model.DeploymentOutcome{
		App:         name,
		Source:      res.Source,
		Destination: res.Destination,
		Replaced:    res.Replaced,
		Status:      model.DeployMoved,
	}
	if err != nil {
		if errors.Is(err, model.ErrSourceNotFound) {
			o.logger.Warn("Build output missing, the build probably failed", "app", name, "error", err)
		} else {
			o.logger.Error("Deployment failed", "app", name, "error", err)
		}
		outcome.Status = model.DeployFailed
		outcome.Error = err.Error()
	}
	return outcome
}

// restart runs the container restart once at least one app was deployed.
func (o *Orchestrator) restart(ctx context.Context, report *model.RunReport) {
	if o.restarter == nil {
		return
	}
	if report.Deployed() == 0 {
		o.logger.Info("Nothing was deployed, skipping container restart")
		return
	}

	restarted, err := o.restarter.Restart(ctx)
	report.Restarted = restarted
	if err != nil {
		o.logger.Error("Container restart failed", "error", err)
		report.RestartError = err.Error()
		return
	}
	o.logger.Info("Restarted containers", "containers", restarted)
}

// readRevision returns nil when no reader is set or the frontend root is
// not in a git repository.
func (o *Orchestrator) readRevision(ctx context.Context, root string) *model.Revision {
	if o.revisions == nil {
		return nil
	}
	rev, err := o.revisions.Revision(ctx, root)
	if err != nil {
		o.logger.Debug("Frontend revision unavailable", "path", root, "error", err)
		return nil
	}
	return rev
}
