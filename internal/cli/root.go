// Package cli implements the cobra-based CLI for angular-deploy.
//
// The root command performs a full build and deploy run. The plan
// subcommand prints what a run would do without executing anything.
// Both share the persistent flags defined here.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/angular-deploy/internal/config"
	"github.com/shinji-kodama/angular-deploy/internal/docker"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Global flag variables shared across all commands.
var (
	// jsonOutput switches the report, log records and errors to JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// runFlags holds the persistent flags describing a run. Values here
// override the config file only when the flag was set explicitly.
type runFlags struct {
	configPath        string
	frontendPath      string
	deployPath        string
	apps              []string
	nx                bool
	skipNxCache       bool
	distDir           string
	restartContainers []string
	restartLabel      string
}

// NewRootCommand creates the root command and registers subcommands.
func NewRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "angular-deploy",
		Short: "Build Angular/nx applications and deploy them to a web server directory",
		Long: `angular-deploy builds the named applications of an Angular or nx workspace
and moves each build output into a web server directory.

Applications ending in "-portal" are built separately with
--configuration=portal. Several applications of the same kind are built in
one "nx run-many" call; a single application is built with "ng b" (or
"nx b" with --nx).

Settings can also be read from .angular-deploy.yaml, .angular-deploy.yml or
.angular-deploy.json in the frontend directory. Flags take precedence.

Examples:
  angular-deploy -f ~/src/frontend -d /srv/www -a shop,shop-portal
  angular-deploy -f ~/src/frontend -a admin --nx --skipnxcache
  angular-deploy -f ~/src/frontend -d /srv/www -a shop --restart-label ` + docker.DefaultRestartSelector,

		Args: cobra.NoArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors lets Execute format errors as text or JSON.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), flags, cmd.Flags().Changed)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	pf.StringVar(&flags.configPath, "config", "", "Config file (default: .angular-deploy.{yaml,yml,json} in the frontend path)")
	pf.StringVarP(&flags.frontendPath, "fepath", "f", "", "Path to the Angular/nx workspace")
	pf.StringVarP(&flags.deployPath, "deploypath", "d", "", "Web server directory to deploy into (deployment is skipped when empty)")
	pf.StringSliceVarP(&flags.apps, "appname", "a", nil, "Application names, comma separated")
	pf.BoolVar(&flags.nx, "nx", false, "Build a single application with nx instead of ng")
	pf.BoolVarP(&flags.skipNxCache, "skipnxcache", "s", false, "Pass --skip-nx-cache to the build")
	pf.StringVar(&flags.distDir, "dist-dir", config.DefaultDistDir, "Build output directory relative to the frontend path")
	pf.StringSliceVar(&flags.restartContainers, "restart-container", nil, "Container to restart after deployment (repeatable)")
	pf.StringVar(&flags.restartLabel, "restart-label", "", "Restart running containers with this label (key or key=value)")

	rootCmd.AddCommand(NewPlanCommand(flags))

	return rootCmd
}

// Execute runs the root command and handles exit codes. An interrupt
// cancels the context, which stops a running build.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cliErr.Message, cliErr.Err)
		os.Exit(int(cliErr.Code))
	}

	// Flag parsing errors from cobra are usage errors.
	printError(err.Error(), nil)
	os.Exit(int(model.ExitUsageError))
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout carries the report.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
