package model

import "strings"

// PortalSuffix is the literal name suffix that places an application in
// the Portal category. The match is case-sensitive and has no exceptions.
const PortalSuffix = "-portal"

// Category is a closed tagged variant with exactly two values, Core and
// Portal. The only data it carries is the build configuration selector
// that the category adds to the build command.
//
// The fields are unexported so that no other package can construct a
// third category; use the Core and Portal variables.
type Category struct {
	name          string
	configuration string
}

var (
	// Core applications are built without a configuration selector.
	Core = Category{name: "core"}

	// Portal applications are built with --configuration=portal.
	Portal = Category{name: "portal", configuration: "portal"}
)

// Categories lists every category in processing order.
var Categories = []Category{Core, Portal}

// String returns the lowercase category name ("core" or "portal").
func (c Category) String() string {
	return c.name
}

// Configuration returns the configuration selector for this category.
// An empty string means the category adds nothing to the command.
func (c Category) Configuration() string {
	return c.configuration
}

// MarshalText lets the category appear as its name in JSON reports.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.name), nil
}

// CategoryOf returns the category an application name belongs to.
func CategoryOf(name string) Category {
	if strings.HasSuffix(name, PortalSuffix) {
		return Portal
	}
	return Core
}

// ClassifiedNames holds the duplicate-free application names of each
// category in first-seen order. The two slices never share a name.
type ClassifiedNames struct {
	Core   []string `json:"core"`
	Portal []string `json:"portal"`
}

// Names returns the names classified into the given category.
func (c ClassifiedNames) Names(category Category) []string {
	if category == Portal {
		return c.Portal
	}
	return c.Core
}

// IsEmpty reports whether both categories are empty.
func (c ClassifiedNames) IsEmpty() bool {
	return len(c.Core) == 0 && len(c.Portal) == 0
}

// BuildFlags controls how the build command for one category is chosen.
type BuildFlags struct {
	// UseMultiProjectTool forces nx even for a single application.
	UseMultiProjectTool bool `json:"useMultiProjectTool"`

	// SkipCache appends the nx cache-bypass option.
	SkipCache bool `json:"skipCache"`

	// Runner is prepended to every command (for example ["npx"]).
	Runner []string `json:"runner,omitempty"`
}

// IsMultiApp reports whether a category with n applications needs the
// "run many" form.
func IsMultiApp(n int) bool {
	return n > 1
}

// DeploymentRequest describes the relocation of one application's build
// output into the destination root.
type DeploymentRequest struct {
	// FrontendRoot is the root of the frontend workspace.
	FrontendRoot string

	// BuildOutputSubdir is the build output directory relative to
	// FrontendRoot, usually "dist".
	BuildOutputSubdir string

	// DestinationRoot is the directory the application is moved into.
	DestinationRoot string

	// ApplicationName is the application to deploy. When empty the last
	// segment of FrontendRoot is used.
	ApplicationName string

	// MultiProjectBuild is true when nx built the application, which puts
	// the output under an extra "apps" level.
	MultiProjectBuild bool
}

// BuildStatus is the outcome of one category's build step.
type BuildStatus string

const (
	// BuildSucceeded means the build subprocess exited with status 0.
	BuildSucceeded BuildStatus = "succeeded"

	// BuildFailed means the build could not run or exited non-zero.
	BuildFailed BuildStatus = "failed"

	// BuildSkipped means the category had no applications.
	BuildSkipped BuildStatus = "skipped"

	// BuildPlanned is used by the plan command, which never executes.
	BuildPlanned BuildStatus = "planned"
)

// String returns the string representation of BuildStatus.
func (s BuildStatus) String() string {
	return string(s)
}

// DeployStatus is the outcome of deploying a single application.
type DeployStatus string

const (
	DeployMoved   DeployStatus = "moved"
	DeployFailed  DeployStatus = "failed"
	DeploySkipped DeployStatus = "skipped"
	DeployPlanned DeployStatus = "planned"
)

// String returns the string representation of DeployStatus.
func (s DeployStatus) String() string {
	return string(s)
}

// DeploymentOutcome records what happened to one application.
type DeploymentOutcome struct {
	App         string       `json:"app"`
	Source      string       `json:"source,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Replaced    bool         `json:"replaced"`
	Status      DeployStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
}

// CategoryReport records the processing of one category.
type CategoryReport struct {
	Category    Category            `json:"category"`
	Apps        []string            `json:"apps"`
	Command     string              `json:"command,omitempty"`
	Status      BuildStatus         `json:"status"`
	ExitCode    int                 `json:"exitCode"`
	Error       string              `json:"error,omitempty"`
	Deployments []DeploymentOutcome `json:"deployments,omitempty"`
}

// Revision identifies the state of the frontend repository that was built.
type Revision struct {
	Root   string `json:"root"`
	Branch string `json:"branch"`
	Commit string `json:"commit"`
}

// String returns "branch@commit".
func (r Revision) String() string {
	return r.Branch + "@" + r.Commit
}

// RunReport is the full result of one orchestration run.
type RunReport struct {
	FrontendRoot    string           `json:"frontendRoot"`
	DestinationRoot string           `json:"destinationRoot,omitempty"`
	Revision        *Revision        `json:"revision,omitempty"`
	Categories      []CategoryReport `json:"categories"`
	Restarted       []string         `json:"restarted,omitempty"`
	RestartError    string           `json:"restartError,omitempty"`
}

// BuildFailures counts categories whose build failed.
func (r *RunReport) BuildFailures() int {
	n := 0
	for _, c := range r.Categories {
		if c.Status == BuildFailed {
			n++
		}
	}
	return n
}

// DeploymentFailures counts applications whose deployment failed.
func (r *RunReport) DeploymentFailures() int {
	n := 0
	for _, c := range r.Categories {
		for _, d := range c.Deployments {
			if d.Status == DeployFailed {
				n++
			}
		}
	}
	return n
}

// Deployed counts applications that were moved into place.
func (r *RunReport) Deployed() int {
	n := 0
	for _, c := range r.Categories {
		for _, d := range c.Deployments {
			if d.Status == DeployMoved {
				n++
			}
		}
	}
	return n
}

// ExitCode maps the report to a process exit code. Build failures take
// precedence over deployment failures, which take precedence over
// container restart failures.
func (r *RunReport) ExitCode() ExitCode {
	switch {
	case r.BuildFailures() > 0:
		return ExitBuildFailed
	case r.DeploymentFailures() > 0:
		return ExitDeploymentFailed
	case r.RestartError != "":
		return ExitRestartFailed
	default:
		return ExitSuccess
	}
}
