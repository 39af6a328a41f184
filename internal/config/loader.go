package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/silentHoo/imagesel/internal/module"
)

// Loader errors.
var (
	// ErrUnsupportedFormat is returned for config files whose
	// extension is neither YAML nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// file is the on-disk configuration shape shared by the YAML and TOML
// loaders. Module entries are built-in names, or paths to Lua scripts
// (recognized by their .lua extension).
type file struct {
	Modules       []string          `yaml:"modules" toml:"modules"`
	OverlayStyles map[string]string `yaml:"overlayStyles" toml:"overlayStyles"`
	Options       map[string]any    `yaml:"options" toml:"options"`
}

// Load reads a configuration file and merges it over the defaults.
// The format is chosen by extension: .yaml/.yml or .toml.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}

	var f file
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Options{}, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return Options{}, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return Options{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	return Default().Merge(f.toOptions()), nil
}

// toOptions converts the file shape into merged-options form.
func (f file) toOptions() Options {
	var opts Options

	if f.Modules != nil {
		opts.Modules = make([]module.Spec, 0, len(f.Modules))
		for _, entry := range f.Modules {
			if strings.HasSuffix(strings.ToLower(entry), ".lua") {
				opts.Modules = append(opts.Modules, module.Scripted(entry))
			} else {
				opts.Modules = append(opts.Modules, module.Named(entry))
			}
		}
	}

	opts.OverlayStyles = f.OverlayStyles
	opts.ModuleOptions = f.Options
	return opts
}
