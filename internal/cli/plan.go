package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/angular-deploy/internal/orchestrator"
)

// NewPlanCommand creates the "plan" command. It shares the root's
// persistent flags so any deploy invocation can be previewed by inserting
// "plan".
func NewPlanCommand(flags *runFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the build commands and deploy targets without running them",
		Long: `Print the build command of each category and where each application
would be deployed. Nothing is executed and no files are touched.

Examples:
  angular-deploy plan -f ~/src/frontend -d /srv/www -a shop,shop-portal
  angular-deploy plan -f ~/src/frontend -a shop,blog --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(flags, cmd.Flags().Changed)
		},
	}
}

func runPlan(flags *runFlags, changed func(string) bool) error {
	cfg, err := resolveConfig(flags, changed)
	if err != nil {
		return err
	}

	report, err := orchestrator.Plan(runOptions(cfg))
	if err != nil {
		return usageError(err)
	}

	printRunReport(os.Stdout, report)
	return nil
}
