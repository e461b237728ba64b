package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/angular-deploy/internal/command"
	"github.com/shinji-kodama/angular-deploy/internal/deploy"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExecutor records commands and optionally runs a hook that stands in
// for the build tool writing its output.
type fakeExecutor struct {
	commands []string
	dirs     []string
	fail     map[string]error
	onRun    func(cmd command.CommandLine)
}

func (f *fakeExecutor) Run(_ context.Context, cmd command.CommandLine, dir string) (int, error) {
	line := cmd.String()
	f.commands = append(f.commands, line)
	f.dirs = append(f.dirs, dir)
	if err := f.fail[line]; err != nil {
		return 1, err
	}
	if f.onRun != nil {
		f.onRun(cmd)
	}
	return 0, nil
}

type fakeDeployer struct {
	requests []model.DeploymentRequest
	fail     map[string]error
}

func (f *fakeDeployer) Deploy(req model.DeploymentRequest) (deploy.Result, error) {
	f.requests = append(f.requests, req)
	res := deploy.Result{Target: req.ApplicationName, Destination: filepath.Join(req.DestinationRoot, req.ApplicationName)}
	if err := f.fail[req.ApplicationName]; err != nil {
		return res, err
	}
	return res, nil
}

type fakeRestarter struct {
	calls     int
	restarted []string
	err       error
}

func (f *fakeRestarter) Restart(context.Context) ([]string, error) {
	f.calls++
	return f.restarted, f.err
}

type fakeRevisions struct {
	rev *model.Revision
	err error
}

func (f fakeRevisions) Revision(context.Context, string) (*model.Revision, error) {
	return f.rev, f.err
}

func deployedApps(report *model.RunReport) []string {
	var out []string
	for _, c := range report.Categories {
		for _, d := range c.Deployments {
			if d.Status == model.DeployMoved {
				out = append(out, d.App)
			}
		}
	}
	return out
}

// TestRun_EmptyNames verifies the run stops with a usage error before the
// executor or deployer is called.
func TestRun_EmptyNames(t *testing.T) {
	for _, names := range [][]string{nil, {}, {"", "  "}} {
		exec := &fakeExecutor{}
		dep := &fakeDeployer{}
		o := New(discardLogger(), exec, dep)

		report, err := o.Run(context.Background(), Options{FrontendRoot: "/nonexistent", DestinationRoot: "/srv/www", Apps: names})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrUsage)
		assert.Nil(t, report)
		assert.Empty(t, exec.commands)
		assert.Empty(t, dep.requests)
	}
}

// TestRun_CoreThenPortal verifies category order, command synthesis and
// per-app deployment requests.
func TestRun_CoreThenPortal(t *testing.T) {
	exec := &fakeExecutor{}
	dep := &fakeDeployer{}
	o := New(discardLogger(), exec, dep)

	report, err := o.Run(context.Background(), Options{
		FrontendRoot:    "/work/fe",
		DestinationRoot: "/srv/www",
		DistDir:         "dist",
		Apps:            []string{"admin-portal", "shop", "blog", "shop"},
	})
	require.NoError(t, err)

	wantCommands := []string{
		"nx run-many --target=build --projects=shop,blog --parallel=2",
		"ng b admin-portal --configuration=portal",
	}
	if diff := cmp.Diff(wantCommands, exec.commands); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"/work/fe", "/work/fe"}, exec.dirs)

	require.Len(t, dep.requests, 3)
	assert.Equal(t, model.DeploymentRequest{
		FrontendRoot: "/work/fe", BuildOutputSubdir: "dist", DestinationRoot: "/srv/www", ApplicationName: "shop",
		MultiProjectBuild: true,
	}, dep.requests[0])
	assert.False(t, dep.requests[2].MultiProjectBuild, "a single portal app is built with ng")
	assert.Equal(t, []string{"shop", "blog", "admin-portal"}, deployedApps(report))
	assert.Equal(t, model.ExitSuccess, report.ExitCode())
}

// TestRun_EmptyCategorySkipped verifies a category without apps never
// reaches the executor.
func TestRun_EmptyCategorySkipped(t *testing.T) {
	exec := &fakeExecutor{}
	o := New(discardLogger(), exec, &fakeDeployer{})

	report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", Apps: []string{"shop-portal"}})
	require.NoError(t, err)
	require.Len(t, report.Categories, 2)
	assert.Equal(t, model.BuildSkipped, report.Categories[0].Status)
	assert.Equal(t, model.BuildSucceeded, report.Categories[1].Status)
	assert.Len(t, exec.commands, 1)
}

// TestRun_NoDestination verifies deployment is skipped, not attempted.
func TestRun_NoDestination(t *testing.T) {
	dep := &fakeDeployer{}
	o := New(discardLogger(), &fakeExecutor{}, dep)

	report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", Apps: []string{"shop"}})
	require.NoError(t, err)
	assert.Empty(t, dep.requests)
	require.Len(t, report.Categories[0].Deployments, 1)
	assert.Equal(t, model.DeploySkipped, report.Categories[0].Deployments[0].Status)
	assert.Equal(t, model.ExitSuccess, report.ExitCode())
}

// TestRun_BuildFailureAbortsCategoryOnly verifies a failed Core build skips
// Core deployments while Portal still builds and deploys.
func TestRun_BuildFailureAbortsCategoryOnly(t *testing.T) {
	buildErr := &model.ExecutionError{Kind: model.ErrBuildFailed, Command: "ng b shop", ExitCode: 1}
	exec := &fakeExecutor{fail: map[string]error{"ng b shop": buildErr}}
	dep := &fakeDeployer{}
	o := New(discardLogger(), exec, dep)

	report, err := o.Run(context.Background(), Options{
		FrontendRoot: "/fe", DestinationRoot: "/srv/www", Apps: []string{"shop", "shop-portal"},
	})
	require.NoError(t, err)

	core := report.Categories[0]
	assert.Equal(t, model.BuildFailed, core.Status)
	assert.Equal(t, 1, core.ExitCode)
	assert.Contains(t, core.Error, "exit code 1")
	assert.Empty(t, core.Deployments)

	require.Len(t, dep.requests, 1)
	assert.Equal(t, "shop-portal", dep.requests[0].ApplicationName)
	assert.Equal(t, model.ExitBuildFailed, report.ExitCode())
}

// TestRun_DeploymentFailureIsIsolated verifies one failing app does not
// stop its siblings.
func TestRun_DeploymentFailureIsIsolated(t *testing.T) {
	dep := &fakeDeployer{fail: map[string]error{
		"a": &model.DeploymentError{Kind: model.ErrSourceNotFound, App: "a", Path: "/fe/dist/a"},
	}}
	o := New(discardLogger(), &fakeExecutor{}, dep)

	report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", DestinationRoot: "/srv", Apps: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, dep.requests, 2)
	assert.Equal(t, []string{"b"}, deployedApps(report))
	assert.Equal(t, 1, report.DeploymentFailures())
	assert.Equal(t, model.ExitDeploymentFailed, report.ExitCode())
}

func TestRun_Restart(t *testing.T) {
	t.Run("after deployment", func(t *testing.T) {
		r := &fakeRestarter{restarted: []string{"nginx"}}
		o := New(discardLogger(), &fakeExecutor{}, &fakeDeployer{}, WithRestarter(r))

		report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", DestinationRoot: "/srv", Apps: []string{"shop"}})
		require.NoError(t, err)
		assert.Equal(t, 1, r.calls)
		assert.Equal(t, []string{"nginx"}, report.Restarted)
	})

	t.Run("nothing deployed", func(t *testing.T) {
		r := &fakeRestarter{}
		o := New(discardLogger(), &fakeExecutor{}, &fakeDeployer{}, WithRestarter(r))

		_, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", Apps: []string{"shop"}})
		require.NoError(t, err)
		assert.Zero(t, r.calls)
	})

	t.Run("failure sets exit code", func(t *testing.T) {
		r := &fakeRestarter{err: errors.New("daemon down")}
		o := New(discardLogger(), &fakeExecutor{}, &fakeDeployer{}, WithRestarter(r))

		report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", DestinationRoot: "/srv", Apps: []string{"shop"}})
		require.NoError(t, err)
		assert.Equal(t, "daemon down", report.RestartError)
		assert.Equal(t, model.ExitRestartFailed, report.ExitCode())
	})
}

func TestRun_Revision(t *testing.T) {
	rev := &model.Revision{Root: "/fe", Branch: "main", Commit: "abc1234"}
	o := New(discardLogger(), &fakeExecutor{}, &fakeDeployer{}, WithRevisionReader(fakeRevisions{rev: rev}))
	report, err := o.Run(context.Background(), Options{FrontendRoot: "/fe", Apps: []string{"shop"}})
	require.NoError(t, err)
	assert.Equal(t, rev, report.Revision)

	o = New(discardLogger(), &fakeExecutor{}, &fakeDeployer{}, WithRevisionReader(fakeRevisions{err: errors.New("not a git repository")}))
	report, err = o.Run(context.Background(), Options{FrontendRoot: "/fe", Apps: []string{"shop"}})
	require.NoError(t, err)
	assert.Nil(t, report.Revision)
}

// TestRun_EndToEnd builds "shop" and "shop-portal" with a fake build tool
// that writes ng-style output, then deploys with the real Mover. A stale
// nx-style tree from an earlier build must not be deployed.
func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "www")

	// A stale deployment that must be replaced.
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "shop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "shop", "old.js"), []byte("old"), 0o644))

	// Leftover from an earlier nx build.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist", "apps", "shop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "apps", "shop", "index.html"), []byte("stale"), 0o644))

	exec := &fakeExecutor{onRun: func(cmd command.CommandLine) {
		tokens := cmd.Tokens()
		require.Equal(t, "ng", tokens[0])
		app := tokens[2]
		out := filepath.Join(root, "dist", app)
		require.NoError(t, os.MkdirAll(out, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(out, "index.html"), []byte(app), 0o644))
	}}
	o := New(discardLogger(), exec, deploy.NewMover(discardLogger()))

	report, err := o.Run(context.Background(), Options{
		FrontendRoot:    root,
		DestinationRoot: dest,
		DistDir:         "dist",
		Apps:            []string{"shop", "shop-portal"},
		Flags:           model.BuildFlags{},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExitSuccess, report.ExitCode())

	for _, app := range []string{"shop", "shop-portal"} {
		data, err := os.ReadFile(filepath.Join(dest, app, "index.html"))
		require.NoError(t, err)
		assert.Equal(t, app, string(data))
		assert.NoDirExists(t, filepath.Join(root, "dist", app))
	}
	assert.FileExists(t, filepath.Join(root, "dist", "apps", "shop", "index.html"), "stale nx output is left alone")
	assert.NoFileExists(t, filepath.Join(dest, "shop", "old.js"))
	assert.True(t, report.Categories[0].Deployments[0].Replaced)
	assert.False(t, report.Categories[1].Deployments[0].Replaced)
}

func TestPlan(t *testing.T) {
	report, err := Plan(Options{
		FrontendRoot:    "/work/fe",
		DestinationRoot: "/srv/www",
		Apps:            []string{"a", "b-portal"},
		Flags:           model.BuildFlags{SkipCache: true},
	})
	require.NoError(t, err)
	require.Len(t, report.Categories, 2)

	assert.Equal(t, "ng b a --skip-nx-cache", report.Categories[0].Command)
	assert.Equal(t, "ng b b-portal --skip-nx-cache --configuration=portal", report.Categories[1].Command)
	assert.Equal(t, model.BuildPlanned, report.Categories[0].Status)
	assert.Equal(t, filepath.Join("/srv/www", "a"), report.Categories[0].Deployments[0].Destination)
	assert.Equal(t, model.DeployPlanned, report.Categories[0].Deployments[0].Status)

	_, err = Plan(Options{FrontendRoot: "/work/fe"})
	assert.ErrorIs(t, err, model.ErrUsage)
}

func TestPlan_SkipsEmptyCategory(t *testing.T) {
	report, err := Plan(Options{FrontendRoot: "/fe", Apps: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, model.BuildSkipped, report.Categories[1].Status)
	assert.Empty(t, report.Categories[1].Command)
	assert.Equal(t, model.DeploySkipped, report.Categories[0].Deployments[0].Status)
}
