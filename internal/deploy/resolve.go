package deploy

import (
	"os"
	"path/filepath"
	"strings"
)

// NxAppsDir is the extra directory level nx places between the build
// output directory and each application's output.
const NxAppsDir = "apps"

// ResolveTargetName returns appName, or the last path segment of
// frontendRoot when appName is empty. The result may be empty or "." for
// a root path; Deploy rejects such names.
func ResolveTargetName(frontendRoot, appName string) string {
	if appName != "" {
		return appName
	}
	cleaned := filepath.Clean(frontendRoot)
	segments := strings.Split(cleaned, string(filepath.Separator))
	return segments[len(segments)-1]
}

// DestinationDir returns where appName ends up under destinationRoot.
func DestinationDir(destinationRoot, frontendRoot, appName string) string {
	return filepath.Join(destinationRoot, ResolveTargetName(frontendRoot, appName))
}

// validTargetName accepts only a single path element. Anything else, such
// as "..", "a/b" or "x/..", could point the destination at the
// destination root or outside it.
func validTargetName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// withinRoot reports whether dest is strictly below root.
func withinRoot(root, dest string) bool {
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SourceDirs returns the build output directories of target in lookup
// order. nx writes to <frontendRoot>/<subdir>/apps/<target> and ng writes
// to <frontendRoot>/<subdir>/<target>; the layout of the tool that ran the
// build comes first and the other one is the fallback.
func SourceDirs(frontendRoot, subdir, target string, multiProject bool) (primary, fallback string) {
	distDir := filepath.Join(frontendRoot, subdir)
	nx := filepath.Join(distDir, NxAppsDir, target)
	ng := filepath.Join(distDir, target)
	if multiProject {
		return nx, ng
	}
	return ng, nx
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// exists uses Lstat so that a dangling symlink at the destination still
// counts as something to delete.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
