// Package config loads the toolkit configuration from a .bazel-ide.yml
// file discovered by walking up from the working directory. Coordinators
// take a Config snapshot per operation rather than re-reading mutable
// configuration mid-flight.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srikantharun/bazel-ide-toolkit/errors"
)

// Defaults mirror the reference behavior of the editor extension.
const (
	DefaultDebounceMs = 2000
	DefaultTargets    = "//..."
	DefaultOutputFile = "compile_commands.json"
	DefaultBazelPath  = "bazel"
	DefaultBuildifier = "buildifier"
)

// Config holds all recognized toolkit options.
type Config struct {
	// AutoRefresh enables the debounced refresh on build file changes.
	AutoRefresh *bool `yaml:"auto_refresh"`

	// DebounceMs is the quiet period before a refresh fires. An explicit
	// zero or negative value degrades to firing on every change signal.
	DebounceMs *int `yaml:"debounce_ms"`

	// Targets is the Bazel target pattern covered by the refresh.
	Targets string `yaml:"targets"`

	// OutputFile is the generated compile database, relative to the
	// workspace root.
	OutputFile string `yaml:"output_file"`

	// BazelPath overrides the bazel binary.
	BazelPath string `yaml:"bazel_path"`

	BuildFlags []string `yaml:"build_flags"`
	TestFlags  []string `yaml:"test_flags"`
	RunFlags   []string `yaml:"run_flags"`

	// BuildifierPath overrides the buildifier binary.
	BuildifierPath string `yaml:"buildifier_path"`

	// FormatOnSave enables buildifier formatting when the editor
	// integration saves a Starlark file.
	FormatOnSave bool `yaml:"format_on_save"`

	// EnableCodeLens toggles the editor integration's inline build/test/run
	// affordances. Not consumed by the CLI itself.
	EnableCodeLens *bool `yaml:"enable_codelens"`
}

// Default returns a Config populated with reference defaults.
func Default() Config {
	enabled := true
	debounce := DefaultDebounceMs
	return Config{
		AutoRefresh:    &enabled,
		DebounceMs:     &debounce,
		Targets:        DefaultTargets,
		OutputFile:     DefaultOutputFile,
		BazelPath:      DefaultBazelPath,
		BuildifierPath: DefaultBuildifier,
		EnableCodeLens: &enabled,
	}
}

// AutoRefreshEnabled resolves the tri-state AutoRefresh flag.
func (c Config) AutoRefreshEnabled() bool {
	return c.AutoRefresh == nil || *c.AutoRefresh
}

// Debounce returns the configured quiet period as a duration.
func (c Config) Debounce() time.Duration {
	if c.DebounceMs == nil {
		return DefaultDebounceMs * time.Millisecond
	}
	return time.Duration(*c.DebounceMs) * time.Millisecond
}

// LoadFromBytes parses configuration YAML and applies defaults for any
// omitted field.
func LoadFromBytes(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.ConfigInvalid(err.Error())
	}
	return applyDefaults(cfg), nil
}

// Load reads and parses the given config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.ConfigNotFound(path)
		}
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config")
	}
	return LoadFromBytes(data)
}

// LoadDefault discovers and loads the config for the current directory.
// A missing config file is not an error; defaults are returned.
func LoadDefault() (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Default(), err
	}
	path, err := FindConfigFile(cwd)
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// FindConfigFile searches from startDir up to the filesystem root for a
// recognized config file name.
func FindConfigFile(startDir string) (string, error) {
	configNames := []string{
		".bazel-ide.yml",
		".bazel-ide.yaml",
		"bazel-ide.yml",
		"bazel-ide.yaml",
	}

	dir := startDir
	for {
		// Check each possible config name
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(filepath.Join(startDir, configNames[0]))
}

func applyDefaults(cfg Config) Config {
	def := Default()
	if cfg.AutoRefresh == nil {
		cfg.AutoRefresh = def.AutoRefresh
	}
	if cfg.DebounceMs == nil {
		cfg.DebounceMs = def.DebounceMs
	}
	if cfg.Targets == "" {
		cfg.Targets = def.Targets
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = def.OutputFile
	}
	if cfg.BazelPath == "" {
		cfg.BazelPath = def.BazelPath
	}
	if cfg.BuildifierPath == "" {
		cfg.BuildifierPath = def.BuildifierPath
	}
	if cfg.EnableCodeLens == nil {
		cfg.EnableCodeLens = def.EnableCodeLens
	}
	return cfg
}
