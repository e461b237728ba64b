package orchestrator

import (
	"github.com/shinji-kodama/angular-deploy/internal/apps"
	"github.com/shinji-kodama/angular-deploy/internal/command"
	"github.com/shinji-kodama/angular-deploy/internal/deploy"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Plan classifies opts.Apps and returns the commands a run would execute,
// without spawning anything or touching the filesystem. Destinations are
// computed from the resolved target names; build output paths are not
// probed because they do not exist before the build.
func Plan(opts Options) (*model.RunReport, error) {
	classified := apps.Classify(apps.Normalize(opts.Apps))
	if classified.IsEmpty() {
		return nil, &model.UsageError{Message: "no application names given (use -a or --appname)"}
	}

	report := &model.RunReport{
		FrontendRoot:    opts.FrontendRoot,
		DestinationRoot: opts.DestinationRoot,
	}
	for _, category := range model.Categories {
		names := classified.Names(category)
		cr := model.CategoryReport{Category: category, Apps: names, Status: model.BuildSkipped}
		if len(names) > 0 {
			cr.Command = command.Synthesize(names, opts.Flags, category).String()
			cr.Status = model.BuildPlanned
			for _, name := range names {
				cr.Deployments = append(cr.Deployments, plannedOutcome(opts, name))
			}
		}
		report.Categories = append(report.Categories, cr)
	}
	return report, nil
}

func plannedOutcome(opts Options, name string) model.DeploymentOutcome {
	if opts.DestinationRoot == "" {
		return model.DeploymentOutcome{App: name, Status: model.DeploySkipped}
	}
	return model.DeploymentOutcome{
		App:         name,
		Destination: deploy.DestinationDir(opts.DestinationRoot, opts.FrontendRoot, name),
		Status:      model.DeployPlanned,
	}
}
