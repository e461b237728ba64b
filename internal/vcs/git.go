package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Git queries repository state by invoking the git CLI.
//
// It is stateless; every method receives the path to inspect. The Binary
// field exists so tests and unusual installations can point at a
// specific git executable.
type Git struct {
	// Binary is the git executable. Defaults to "git" on PATH.
	Binary string
}

// NewGit returns a Git that uses the git binary on PATH.
func NewGit() *Git {
	return &Git{Binary: "git"}
}

// RepoRoot returns the top-level directory of the repository that
// contains path, using `git rev-parse --show-toplevel`.
func (g *Git) RepoRoot(ctx context.Context, path string) (string, error) {
	output, err := g.run(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// CurrentBranch returns the short name of the checked-out branch, or
// "HEAD" when the repository is in a detached HEAD state.
func (g *Git) CurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := g.run(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// HeadCommit returns the abbreviated SHA of HEAD.
func (g *Git) HeadCommit(ctx context.Context, path string) (string, error) {
	output, err := g.run(ctx, path, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Revision returns the repository root, branch and commit checked out at
// path.
func (g *Git) Revision(ctx context.Context, path string) (*model.Revision, error) {
	root, err := g.RepoRoot(ctx, path)
	if err != nil {
		return nil, err
	}
	branch, err := g.CurrentBranch(ctx, path)
	if err != nil {
		return nil, err
	}
	commit, err := g.HeadCommit(ctx, path)
	if err != nil {
		return nil, err
	}
	return &model.Revision{Root: root, Branch: branch, Commit: commit}, nil
}

// run executes git with -C path so the parent process's working directory
// is never touched. On failure the trimmed stderr is included in the error.
func (g *Git) run(ctx context.Context, path string, args ...string) (string, error) {
	binary := g.Binary
	if binary == "" {
		binary = "git"
	}
	fullArgs := append([]string{"-C", path}, args...)

	// #nosec G204 -- args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, binary, fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", fmt.Errorf("%s: %w", message, err)
	}
	return stdout.String(), nil
}
