package deploy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Result describes a completed deployment.
type Result struct {
	// Target is the resolved application directory name.
	Target string

	// Source is the build output directory that was moved.
	Source string

	// Destination is the deployed directory, <DestinationRoot>/<Target>.
	Destination string

	// Replaced is true when an existing deployment was removed first.
	Replaced bool
}

// Mover performs deployments on the local filesystem.
type Mover struct {
	logger *slog.Logger

	// rename and removeAll are the filesystem primitives; tests replace
	// them to simulate cross-device moves and permission failures.
	rename    func(oldpath, newpath string) error
	removeAll func(path string) error
}

// NewMover returns a Mover backed by the os package.
func NewMover(logger *slog.Logger) *Mover {
	return &Mover{
		logger:    logger,
		rename:    os.Rename,
		removeAll: os.RemoveAll,
	}
}

// Deploy deletes any existing deployment of the requested application and
// moves the fresh build output into req.DestinationRoot.
//
// Errors are *model.DeploymentError with kind ErrInvalidTarget,
// ErrDeleteFailed, ErrSourceNotFound or ErrMoveFailed. The returned Result
// is filled in as far as the deployment got, so Replaced is accurate even
// when the move fails.
func (m *Mover) Deploy(req model.DeploymentRequest) (Result, error) {
	target := ResolveTargetName(req.FrontendRoot, req.ApplicationName)
	res := Result{Target: target}
	if !validTargetName(target) {
		return res, &model.DeploymentError{Kind: model.ErrInvalidTarget, App: target, Path: req.FrontendRoot}
	}

	res.Destination = DestinationDir(req.DestinationRoot, req.FrontendRoot, target)
	if !withinRoot(req.DestinationRoot, res.Destination) {
		return res, &model.DeploymentError{Kind: model.ErrInvalidTarget, App: target, Path: res.Destination}
	}
	log := m.logger.With("app", target)

	// Step 2: delete the existing deployment, if any.
	log.Info("Deleting existing app in server directory", "path", res.Destination)
	if exists(res.Destination) {
		if err := m.removeAll(res.Destination); err != nil {
			log.Error("Failed to delete existing app", "path", res.Destination, "error", err)
			return res, &model.DeploymentError{Kind: model.ErrDeleteFailed, App: target, Path: res.Destination, Err: err}
		}
		res.Replaced = true
	} else {
		log.Warn("No existing app in server directory", "path", res.Destination)
	}

	// Step 3: move the new build output into place.
	primary, fallback := SourceDirs(req.FrontendRoot, req.BuildOutputSubdir, target, req.MultiProjectBuild)
	res.Source = primary
	if !isDir(primary) {
		if !isDir(fallback) {
			log.Warn("Build output not found, check the build log for details", "path", primary)
			return res, &model.DeploymentError{Kind: model.ErrSourceNotFound, App: target, Path: primary}
		}
		log.Warn("Build output not in the expected layout, using fallback", "expected", primary, "path", fallback)
		res.Source = fallback
	}

	log.Info("Moving built app to server directory", "from", res.Source, "to", req.DestinationRoot)
	if err := os.MkdirAll(req.DestinationRoot, 0o755); err != nil {
		return res, &model.DeploymentError{Kind: model.ErrMoveFailed, App: target, Path: req.DestinationRoot, Err: err}
	}
	if err := m.move(res.Source, res.Destination); err != nil {
		log.Error("Failed to move built app", "from", res.Source, "to", res.Destination, "error", err)
		return res, &model.DeploymentError{Kind: model.ErrMoveFailed, App: target, Path: res.Source, Err: err}
	}

	log.Info("Done moving built app to server directory", "path", res.Destination)
	return res, nil
}

// move renames src to dst. When they are on different filesystems it
// falls back to copying the tree and removing src. A failed copy removes
// the partial destination so that no half-deployed directory is served.
func (m *Mover) move(src, dst string) error {
	err := m.rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	m.logger.Debug("Cross-device move, copying instead", "from", src, "to", dst)
	if err := CopyTree(src, dst); err != nil {
		_ = m.removeAll(dst)
		return fmt.Errorf("copy across filesystems: %w", err)
	}
	if err := m.removeAll(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
