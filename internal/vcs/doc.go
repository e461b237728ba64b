// Package vcs reads git provenance of the frontend workspace being built.
//
// All Git operations are performed via os/exec calls to the git binary,
// rather than using a Git library like go-git. This keeps the behavior
// identical to what the user sees in their terminal and adds no CGO
// dependencies. Provenance is informational: callers log it and include
// it in the run report, and a workspace that is not a git repository is
// not an error for the run.
package vcs
