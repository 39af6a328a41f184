// Package module defines the behavior-module contract and the
// orchestrator that manages module lifecycles over one selection.
//
// A behavior module adds one capability to a selected image — resize
// handles, a toolbar, a size readout. Modules are constructed fresh
// for every selection and torn down before the next one begins.
package module

import (
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/overlay"
)

// Module is one pluggable behavior attached to a selection.
//
// OnCreate is called once after construction, in configured order, so
// later modules may rely on earlier ones having completed setup.
// OnUpdate is called whenever overlay geometry changes. OnDestroy is
// called exactly once before the module is discarded.
type Module interface {
	OnCreate()
	OnUpdate()
	OnDestroy()
}

// Constructor builds a module instance for one selection.
type Constructor func(ctx *Context) Module

// Owner is the controller that owns the selection a module serves.
type Owner interface {
	// Reposition recomputes overlay geometry and re-runs OnUpdate on
	// every active module.
	Reposition()
}

// Context is handed to every module constructor. It exposes the
// selected image, the overlay, the owning controller, and the merged
// per-module configuration. Modules must not retain it past OnDestroy.
type Context struct {
	// Image is the selected image. Borrowed; may become detached.
	Image host.Image

	// Overlay is the overlay element over the image.
	Overlay *overlay.Handle

	// Owner is the controller owning this selection.
	Owner Owner

	// Options holds per-module configuration, passed through from the
	// merged options unmodified.
	Options map[string]any
}

// IntOption reads an integer option by key, tolerating the numeric
// types produced by config file decoding.
func (c *Context) IntOption(key string, fallback int) int {
	if c == nil || c.Options == nil {
		return fallback
	}
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
