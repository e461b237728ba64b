package cli

import (
	"errors"

	"github.com/shinji-kodama/angular-deploy/internal/config"
	"github.com/shinji-kodama/angular-deploy/internal/model"
	"github.com/shinji-kodama/angular-deploy/internal/orchestrator"
)

// resolveConfig loads the config file, if any, applies explicitly set
// flags on top of it and validates the result.
//
// The config file is --config when given, otherwise the first of
// config.FileNames found in the frontend path (from -f, or the current
// directory when -f is not set).
func resolveConfig(flags *runFlags, changed func(name string) bool) (*config.Config, error) {
	cfg := config.Default()

	path := flags.configPath
	if path == "" {
		dir := flags.frontendPath
		if dir == "" {
			dir = "."
		}
		if found, ok := config.Find(dir); ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitUsageError, "invalid config file", err)
		}
		cfg = loaded
	}

	applyFlags(cfg, flags, changed)

	if err := cfg.Validate(); err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cfg *config.Config, flags *runFlags, changed func(name string) bool) {
	if changed("fepath") {
		cfg.FrontendPath = flags.frontendPath
	}
	if changed("deploypath") {
		cfg.DeployPath = flags.deployPath
	}
	if changed("appname") {
		cfg.Apps = flags.apps
	}
	if changed("nx") {
		cfg.Nx = flags.nx
	}
	if changed("skipnxcache") {
		cfg.SkipNxCache = flags.skipNxCache
	}
	if changed("dist-dir") {
		cfg.DistDir = flags.distDir
	}
	if changed("restart-container") {
		cfg.Restart.Containers = flags.restartContainers
	}
	if changed("restart-label") {
		cfg.Restart.Label = flags.restartLabel
	}
}

// runOptions converts a validated config into orchestrator input.
func runOptions(cfg *config.Config) orchestrator.Options {
	return orchestrator.Options{
		FrontendRoot:    cfg.FrontendPath,
		DestinationRoot: cfg.DeployPath,
		DistDir:         cfg.DistDir,
		Apps:            cfg.Apps,
		Flags:           cfg.BuildFlags(),
	}
}

// usageError converts a *model.UsageError into a CLIError with the usage
// exit code. Other errors exit with the general error code.
func usageError(err error) error {
	if errors.Is(err, model.ErrUsage) {
		return model.NewCLIError(model.ExitUsageError, err.Error())
	}
	return model.WrapCLIError(model.ExitGeneralError, "unexpected error", err)
}
