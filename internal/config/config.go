package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/angular-deploy/internal/apps"
	"github.com/shinji-kodama/angular-deploy/internal/model"
)

// DefaultDistDir is the build output directory used by the Angular CLI
// and nx unless configured otherwise.
const DefaultDistDir = "dist"

// FileNames lists the config file names searched for in the frontend
// root, in priority order.
var FileNames = []string{
	".angular-deploy.yaml",
	".angular-deploy.yml",
	".angular-deploy.json",
}

// Config is the validated input of one angular-deploy run.
type Config struct {
	// FrontendPath is the root of the Angular/nx workspace. Required.
	FrontendPath string `yaml:"frontendPath" json:"frontendPath"`

	// DeployPath is where built apps are moved. Empty skips deployment.
	DeployPath string `yaml:"deployPath" json:"deployPath"`

	// Apps lists the application names to build.
	Apps []string `yaml:"apps" json:"apps"`

	// Nx forces the multi-project tool for single-app categories.
	Nx bool `yaml:"nx" json:"nx"`

	// SkipNxCache bypasses the nx computation cache.
	SkipNxCache bool `yaml:"skipNxCache" json:"skipNxCache"`

	// DistDir is the build output directory relative to FrontendPath.
	DistDir string `yaml:"distDir" json:"distDir"`

	// Runner is prepended to every build command, e.g. ["npx"].
	Runner []string `yaml:"runner" json:"runner"`

	// Restart lists web server containers to restart after deployment.
	Restart RestartConfig `yaml:"restart" json:"restart"`
}

// RestartConfig selects containers to restart once apps are deployed.
type RestartConfig struct {
	// Containers are container names or IDs.
	Containers []string `yaml:"containers" json:"containers"`

	// Label selects containers by a "key=value" or "key" label filter.
	Label string `yaml:"label" json:"label"`
}

// Enabled reports whether any restart target is configured.
func (r RestartConfig) Enabled() bool {
	return len(r.Containers) > 0 || r.Label != ""
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{DistDir: DefaultDistDir}
}

// BuildFlags returns the command synthesis flags for this config.
func (c *Config) BuildFlags() model.BuildFlags {
	return model.BuildFlags{
		UseMultiProjectTool: c.Nx,
		SkipCache:           c.SkipNxCache,
		Runner:              c.Runner,
	}
}

// Validate normalizes application names and checks required fields.
// A missing frontend path is a usage error. Empty application lists are
// not rejected here; the orchestrator reports them as a usage error.
func (c *Config) Validate() error {
	c.Apps = apps.Normalize(c.Apps)

	if strings.TrimSpace(c.FrontendPath) == "" {
		return &model.UsageError{Message: "frontend path is required (use -f or --fepath)"}
	}
	if c.DistDir == "" {
		c.DistDir = DefaultDistDir
	}
	if filepath.IsAbs(c.DistDir) {
		return &model.UsageError{Message: fmt.Sprintf("dist directory %q must be relative to the frontend path", c.DistDir)}
	}
	if c.Restart.Label != "" && strings.HasPrefix(c.Restart.Label, "=") {
		return &model.UsageError{Message: fmt.Sprintf("invalid restart label %q: expected key or key=value", c.Restart.Label)}
	}
	return nil
}

// Find returns the first config file from FileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads a config file on top of the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults. Relative
// frontendPath and deployPath values are resolved against the directory
// containing the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = decodeJSONC(data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.FrontendPath = resolve(base, cfg.FrontendPath)
	cfg.DeployPath = resolve(base, cfg.DeployPath)
	return cfg, nil
}

func decodeJSONC(data []byte, cfg *Config) error {
	// jsonc.ToJSON strips comments and trailing commas, leaving standard
	// JSON for encoding/json.
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
