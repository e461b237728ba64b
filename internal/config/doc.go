// Package config loads and validates angular-deploy settings.
//
// Settings come from three layers, highest precedence first: command-line
// flags, an optional project config file, and built-in defaults. The
// config file is either YAML (.angular-deploy.yaml / .yml, parsed with
// gopkg.in/yaml.v3) or JSON with comments (.angular-deploy.json, comments
// stripped with github.com/tidwall/jsonc before encoding/json parsing).
package config
