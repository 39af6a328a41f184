// Package config holds the merged, immutable configuration for the
// image selection system: which behavior modules run, how the overlay
// is styled, and pass-through per-module options. Configuration is
// merged once at construction time and validated eagerly, so an
// unresolvable module identifier fails before any selection happens.
package config

import (
	"fmt"

	"github.com/silentHoo/imagesel/internal/module"
)

// Options is the merged configuration. Treat as read-only after Merge.
type Options struct {
	// Modules lists the behavior modules to attach to a selection, in
	// initialization order.
	Modules []module.Spec

	// OverlayStyles are style properties merged onto the overlay
	// element at creation.
	OverlayStyles map[string]string

	// ModuleOptions carries additional per-module options, passed
	// through to module constructors unmodified.
	ModuleOptions map[string]any
}

// Default returns the stock configuration: size readout, toolbar, and
// resize handles over a dashed overlay frame.
func Default() Options {
	return Options{
		Modules: []module.Spec{
			module.Named(module.NameDisplaySize),
			module.Named(module.NameToolbar),
			module.Named(module.NameResize),
		},
		OverlayStyles: map[string]string{
			"position":       "absolute",
			"box-sizing":     "border-box",
			"border":         "1px dashed #444",
			"pointer-events": "none",
		},
		ModuleOptions: map[string]any{},
	}
}

// Merge layers override on top of o and returns the result. A nil
// module list keeps the base list; overlay styles and module options
// merge key-wise with the override winning. Neither input is mutated.
func (o Options) Merge(override Options) Options {
	out := Options{
		Modules:       append([]module.Spec(nil), o.Modules...),
		OverlayStyles: make(map[string]string, len(o.OverlayStyles)),
		ModuleOptions: make(map[string]any, len(o.ModuleOptions)),
	}
	for k, v := range o.OverlayStyles {
		out.OverlayStyles[k] = v
	}
	for k, v := range o.ModuleOptions {
		out.ModuleOptions[k] = v
	}

	if override.Modules != nil {
		out.Modules = append([]module.Spec(nil), override.Modules...)
	}
	for k, v := range override.OverlayStyles {
		out.OverlayStyles[k] = v
	}
	for k, v := range override.ModuleOptions {
		out.ModuleOptions[k] = v
	}
	return out
}

// Validate resolves every configured module spec against the registry.
// This is where a bad identifier becomes a hard error instead of a
// missing feature at selection time.
func (o Options) Validate(reg *module.Registry) error {
	for i, spec := range o.Modules {
		if _, err := spec.Resolve(reg); err != nil {
			return fmt.Errorf("modules[%d]: %w", i, err)
		}
	}
	return nil
}
