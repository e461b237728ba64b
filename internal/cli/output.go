package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// printRunReport outputs the report in text or JSON format, depending on
// the global --json flag.
func printRunReport(w io.Writer, report *model.RunReport) {
	if IsJSONOutput() {
		printRunReportJSON(w, report)
	} else {
		printRunReportText(w, report)
	}
}

// printRunReportJSON outputs the report as indented JSON.
func printRunReportJSON(w io.Writer, report *model.RunReport) {
	data, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printRunReportText outputs the report as two aligned tables:
//
//	CATEGORY  STATUS     EXIT  COMMAND
//	core      succeeded  0     nx run-many --target=build --projects=shop,blog --parallel=2
//	portal    skipped    -     -
//
//	APP           STATUS   DESTINATION
//	shop          moved    /srv/www/shop (replaced)
//	blog          failed   build output not found: /fe/dist/apps/blog
func printRunReportText(w io.Writer, report *model.RunReport) {
	fmt.Fprintf(w, "Frontend:  %s\n", report.FrontendRoot)
	if report.Revision != nil {
		fmt.Fprintf(w, "Revision:  %s\n", report.Revision)
	}
	deployTo := report.DestinationRoot
	if deployTo == "" {
		deployTo = "- (deployment skipped)"
	}
	fmt.Fprintf(w, "Deploy to: %s\n\n", deployTo)

	fmt.Fprintf(w, "%-10s %-10s %-5s %s\n", "CATEGORY", "STATUS", "EXIT", "COMMAND")
	for _, c := range report.Categories {
		fmt.Fprintf(w, "%-10s %-10s %-5s %s\n",
			c.Category, c.Status, FormatExitCode(c), dashIfEmpty(c.Command))
	}

	var outcomes []model.DeploymentOutcome
	for _, c := range report.Categories {
		outcomes = append(outcomes, c.Deployments...)
	}
	if len(outcomes) > 0 {
		fmt.Fprintf(w, "\n%-24s %-8s %s\n", "APP", "STATUS", "DESTINATION")
		for _, d := range outcomes {
			fmt.Fprintf(w, "%-24s %-8s %s\n", d.App, d.Status, FormatOutcomeDetail(d))
		}
	}

	if len(report.Restarted) > 0 {
		fmt.Fprintf(w, "\nRestarted: %v\n", report.Restarted)
	}
	if report.RestartError != "" {
		fmt.Fprintf(w, "Restart failed: %s\n", report.RestartError)
	}
}

// FormatExitCode returns the build exit code of a category, or "-" when
// no build process ran.
func FormatExitCode(c model.CategoryReport) string {
	switch c.Status {
	case model.BuildSkipped, model.BuildPlanned:
		return "-"
	case model.BuildFailed:
		if c.ExitCode < 0 {
			return "-"
		}
	}
	return strconv.Itoa(c.ExitCode)
}

// FormatOutcomeDetail returns the destination column of one deployment.
//
// Example:
//
//	{Status: moved, Destination: /srv/www/shop, Replaced: true} → "/srv/www/shop (replaced)"
//	{Status: failed, Error: "..."}                              → "..."
//	{Status: skipped}                                           → "-"
func FormatOutcomeDetail(d model.DeploymentOutcome) string {
	switch d.Status {
	case model.DeployFailed:
		return d.Error
	case model.DeployMoved:
		if d.Replaced {
			return d.Destination + " (replaced)"
		}
		return d.Destination
	default:
		return dashIfEmpty(d.Destination)
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
