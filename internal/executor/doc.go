// Package executor runs a synthesized build command through the platform
// shell and reports how it ended.
//
// The working directory is passed to the child process explicitly
// (exec.Cmd.Dir); the executor never changes the working directory of
// the angular-deploy process itself. The exit status of the build tool is
// inspected: a non-zero exit is reported as model.ErrBuildFailed.
package executor
