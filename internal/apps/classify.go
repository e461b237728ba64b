package apps

import (
	"strings"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// Classify partitions names into Core and Portal using model.CategoryOf.
// Each category is deduplicated by exact string equality, keeping the
// first occurrence. Empty input yields two empty slices; reporting that
// as a usage error is the caller's job.
func Classify(names []string) model.ClassifiedNames {
	core := NewOrderedSet[string]()
	portal := NewOrderedSet[string]()

	for _, name := range names {
		if model.CategoryOf(name) == model.Portal {
			portal.Add(name)
		} else {
			core.Add(name)
		}
	}

	return model.ClassifiedNames{
		Core:   core.Values(),
		Portal: portal.Values(),
	}
}

// Normalize trims surrounding whitespace from each name and drops empty
// entries, so that "-a shop, ,admin-portal" yields ["shop" "admin-portal"].
// Classification itself assumes non-empty names.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
