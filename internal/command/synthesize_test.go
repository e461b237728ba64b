package command

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// TestSynthesize checks each branch of the command decision policy and the
// order of appended options.
func TestSynthesize(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		flags    model.BuildFlags
		category model.Category
		want     []string
	}{
		{
			name:     "single core app uses ng",
			names:    []string{"z"},
			category: model.Core,
			want:     []string{"ng", "b", "z"},
		},
		{
			name:     "single app with forced nx",
			names:    []string{"z"},
			flags:    model.BuildFlags{UseMultiProjectTool: true},
			category: model.Core,
			want:     []string{"nx", "b", "z"},
		},
		{
			name:     "multiple apps use run-many",
			names:    []string{"x", "y"},
			category: model.Core,
			want:     []string{"nx", "run-many", "--target=build", "--projects=x,y", "--parallel=2"},
		},
		{
			name:     "multiple apps ignore forced nx flag",
			names:    []string{"c", "a", "b"},
			flags:    model.BuildFlags{UseMultiProjectTool: true},
			category: model.Core,
			want:     []string{"nx", "run-many", "--target=build", "--projects=c,a,b", "--parallel=3"},
		},
		{
			name:     "skip cache",
			names:    []string{"z"},
			flags:    model.BuildFlags{SkipCache: true},
			category: model.Core,
			want:     []string{"ng", "b", "z", "--skip-nx-cache"},
		},
		{
			name:     "portal adds configuration",
			names:    []string{"z-portal"},
			category: model.Portal,
			want:     []string{"ng", "b", "z-portal", "--configuration=portal"},
		},
		{
			name:     "portal configuration comes after cache option",
			names:    []string{"a-portal", "b-portal"},
			flags:    model.BuildFlags{SkipCache: true},
			category: model.Portal,
			want: []string{"nx", "run-many", "--target=build", "--projects=a-portal,b-portal", "--parallel=2",
				"--skip-nx-cache", "--configuration=portal"},
		},
		{
			name:     "runner prefix",
			names:    []string{"z"},
			flags:    model.BuildFlags{Runner: []string{"npx"}},
			category: model.Core,
			want:     []string{"npx", "ng", "b", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(tt.names, tt.flags, tt.category)
			if diff := cmp.Diff(tt.want, got.Tokens()); diff != "" {
				t.Errorf("Synthesize() tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestSynthesize_Deterministic verifies that identical inputs always
// produce the identical command string.
func TestSynthesize_Deterministic(t *testing.T) {
	flags := model.BuildFlags{SkipCache: true}
	first := Synthesize([]string{"a-portal", "b-portal"}, flags, model.Portal).Render("linux")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Synthesize([]string{"a-portal", "b-portal"}, flags, model.Portal).Render("linux"))
	}
	assert.Equal(t,
		"nx run-many --target=build --projects=a-portal,b-portal --parallel=2 --skip-nx-cache --configuration=portal",
		first)
}

// TestSynthesize_PortalSuffix verifies the portal selector is always the
// last part of a portal command.
func TestSynthesize_PortalSuffix(t *testing.T) {
	for _, flags := range []model.BuildFlags{{}, {SkipCache: true}, {UseMultiProjectTool: true, SkipCache: true}} {
		for _, names := range [][]string{{"p-portal"}, {"p-portal", "q-portal"}} {
			line := Synthesize(names, flags, model.Portal).Render("linux")
			assert.True(t, strings.HasSuffix(line, " --configuration=portal"), line)
		}
	}
}

func TestUsesMultiProjectTool(t *testing.T) {
	assert.False(t, UsesMultiProjectTool(1, model.BuildFlags{}))
	assert.True(t, UsesMultiProjectTool(1, model.BuildFlags{UseMultiProjectTool: true}))
	assert.True(t, UsesMultiProjectTool(2, model.BuildFlags{}))
}
