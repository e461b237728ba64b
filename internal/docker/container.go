package docker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/shinji-kodama/angular-deploy/internal/apps"
)

// containerAPI is the subset of the Engine API used here. *client.Client
// satisfies it; tests provide a fake.
type containerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerRestart(ctx context.Context, containerID string, options container.StopOptions) error
}

// Restarter restarts the configured containers after a deployment.
type Restarter struct {
	// Containers are restarted by name or ID.
	Containers []string

	// Label additionally selects running containers by label selector.
	Label string

	logger    *slog.Logger
	newClient func() (*Client, error)
}

// NewRestarter returns a Restarter that connects with NewClient.
func NewRestarter(logger *slog.Logger, containers []string, label string) *Restarter {
	return &Restarter{
		Containers: containers,
		Label:      label,
		logger:     logger,
		newClient:  NewClient,
	}
}

// Restart connects to the daemon, resolves targets and restarts each one.
// It returns the names that were restarted. A failure on one container
// does not stop the others; all failures are joined into the error.
func (r *Restarter) Restart(ctx context.Context) ([]string, error) {
	cli, err := r.newClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return nil, err
	}
	return restartTargets(ctx, cli.inner, r.Containers, r.Label, r.logger)
}

// restartTargets resolves names plus label matches, deduplicated in
// order, and restarts them one at a time.
func restartTargets(ctx context.Context, api containerAPI, names []string, label string, logger *slog.Logger) ([]string, error) {
	targets := apps.NewOrderedSet[string]()
	for _, n := range names {
		targets.Add(n)
	}

	if label != "" {
		args, err := LabelFilter(label)
		if err != nil {
			return nil, err
		}
		// Only running containers: a stopped container has nothing to reload.
		found, err := api.ContainerList(ctx, container.ListOptions{Filters: args})
		if err != nil {
			return nil, fmt.Errorf("failed to list containers with label %q: %w", label, err)
		}
		for _, c := range found {
			targets.Add(containerName(c))
		}
		logger.Debug("Containers matched restart label", "label", label, "count", len(found))
	}

	logger.Debug("Resolved restart targets", "count", targets.Len())

	var restarted []string
	var errs []error
	for _, name := range targets.Values() {
		logger.Info("Restarting container", "container", name)
		// Zero StopOptions uses the daemon's default stop timeout.
		if err := api.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
			logger.Error("Failed to restart container", "container", name, "error", err)
			errs = append(errs, fmt.Errorf("restart %s: %w", name, err))
			continue
		}
		restarted = append(restarted, name)
	}
	return restarted, errors.Join(errs...)
}

// containerName returns the first name without the API's leading "/",
// falling back to the short ID for unnamed containers.
func containerName(c container.Summary) string {
	if len(c.Names) > 0 {
		return strings.TrimPrefix(c.Names[0], "/")
	}
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}
