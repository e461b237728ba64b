// Package orchestrator drives one angular-deploy run: classify the
// application names, then build and deploy the Core category followed by
// the Portal category.
//
// The run is strictly sequential. A category's build finishes before its
// deployments start, and every deployment of a category finishes before
// the next category is built. Parallelism, when wanted, is delegated to the
// external build tool through its --parallel option.
//
// Collaborators are injected as small interfaces so the state machine can
// be tested without a shell, a filesystem or a Docker daemon.
package orchestrator
