package docker

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/filters"
)

// LabelPrefix namespaces labels read by angular-deploy.
const LabelPrefix = "angular-deploy."

// LabelRestart marks a container to be restarted after each deployment,
// e.g. `docker run --label angular-deploy.restart=true nginx`.
const LabelRestart = LabelPrefix + "restart"

// DefaultRestartSelector is the selector suggested in help output.
const DefaultRestartSelector = LabelRestart + "=true"

// ParseLabelSelector splits "key=value" or "key" into its parts.
func ParseLabelSelector(selector string) (key, value string, err error) {
	key, value, _ = strings.Cut(selector, "=")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid label selector %q: expected key or key=value", selector)
	}
	return key, strings.TrimSpace(value), nil
}

// LabelFilter returns Docker API filter arguments matching selector.
// The Engine API accepts both "key" and "key=value" forms.
func LabelFilter(selector string) (filters.Args, error) {
	key, value, err := ParseLabelSelector(selector)
	if err != nil {
		return filters.Args{}, err
	}
	if value == "" {
		return filters.NewArgs(filters.Arg("label", key)), nil
	}
	return filters.NewArgs(filters.Arg("label", key+"="+value)), nil
}
