// Package command builds the external build tool invocation for one
// category of applications.
//
// Commands are assembled as an ordered list of argument tokens
// (CommandLine) and only rendered to a single shell string at the
// execution boundary, where Render quotes any token that the platform
// shell would otherwise split or interpret.
package command
