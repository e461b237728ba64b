package command

import (
	"strconv"
	"strings"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Build tool tokens. nx is the multi-project tool, ng the single-project
// Angular CLI.
const (
	MultiProjectTool  = "nx"
	SingleProjectTool = "ng"

	// SkipCacheOption bypasses the nx computation cache.
	SkipCacheOption = "--skip-nx-cache"
)

// Synthesize returns the build command for one category.
//
// names must be non-empty; empty categories are skipped by the caller.
// The base command is chosen in this order:
//
//  1. more than one name: nx run-many over all names, parallel = len(names)
//  2. one name with UseMultiProjectTool: nx b <name>
//  3. otherwise: ng b <name>
//
// The cache option and then the category's configuration selector are
// appended after the base command.
func Synthesize(names []string, flags model.BuildFlags, category model.Category) CommandLine {
	cmd := New(flags.Runner...)

	switch {
	case model.IsMultiApp(len(names)):
		cmd = cmd.With(
			MultiProjectTool, "run-many",
			"--target=build",
			"--projects="+strings.Join(names, ","),
			"--parallel="+strconv.Itoa(len(names)),
		)
	case flags.UseMultiProjectTool:
		cmd = cmd.With(MultiProjectTool, "b", names[0])
	default:
		cmd = cmd.With(SingleProjectTool, "b", names[0])
	}

	if flags.SkipCache {
		cmd = cmd.With(SkipCacheOption)
	}

	if cfg := category.Configuration(); cfg != "" {
		cmd = cmd.With("--configuration=" + cfg)
	}

	return cmd
}

// UsesMultiProjectTool reports whether Synthesize picks nx for a category
// of n applications. Multi-project builds place their output under an
// extra "apps" directory.
func UsesMultiProjectTool(n int, flags model.BuildFlags) bool {
	return model.IsMultiApp(n) || flags.UseMultiProjectTool
}
