// Package docker restarts web server containers after a deployment.
//
// When the deployment destination is bind-mounted into a container (for
// example nginx serving /usr/share/nginx/html), some setups need the
// container restarted to pick up the new files or clear caches. This
// package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Selecting restart targets by name and by label filter
//   - Restarting each target through the Engine API
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
