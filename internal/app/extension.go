// Package app assembles the image selection system into an extension
// an editor can embed, and provides a small terminal demo that drives
// it end to end.
package app

import (
	"fmt"

	"github.com/silentHoo/imagesel/internal/clipboard"
	"github.com/silentHoo/imagesel/internal/config"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/input"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/module"
	"github.com/silentHoo/imagesel/internal/selection"
)

// ExtensionName is the name the extension registers under in the
// host's component registry.
const ExtensionName = "imageSelection"

// ExtensionOptions configures an Extension.
type ExtensionOptions struct {
	// Config holds the selection options. Zero value means defaults.
	Config config.Options

	// ConfigPath, when set, is loaded over the defaults and watched
	// for changes.
	ConfigPath string

	// Registry resolves named behavior modules. Defaults to the
	// built-in module set.
	Registry *module.Registry

	// Clipboard receives exported images. Defaults to the system
	// clipboard.
	Clipboard clipboard.Writer

	// Notify receives user-visible diagnostics.
	Notify func(msg string)

	// Logger receives diagnostics. Defaults to a stderr logger.
	Logger *Logger
}

// Extension is the embeddable image selection component: one
// controller, one input router, and the wiring between them and the
// host editor.
type Extension struct {
	log      *Logger
	editor   host.Editor
	registry *module.Registry
	ctrl     *selection.Controller
	router   *input.Router

	removeClick func()
	watcher     *config.Watcher
}

// NewExtension wires the selection system to an editor. Configured
// module identifiers are resolved eagerly; an unknown module is a
// fatal initialization error, not something to discover on first
// click.
func NewExtension(editor host.Editor, opts ExtensionOptions) (*Extension, error) {
	if editor == nil {
		return nil, ErrNilEditor
	}
	if opts.Registry == nil {
		opts.Registry = module.Builtins()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.SystemWriter{}
	}
	if opts.Notify == nil {
		opts.Notify = func(string) {}
	}
	if opts.Logger == nil {
		opts.Logger = NewLogger(DefaultLoggerConfig())
	}

	cfg := config.Default().Merge(opts.Config)
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, &InitError{Component: "config", Err: err}
		}
		cfg = loaded.Merge(opts.Config)
	}
	if err := cfg.Validate(opts.Registry); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	ext := &Extension{
		log:      opts.Logger.WithComponent("extension"),
		editor:   editor,
		registry: opts.Registry,
	}
	ext.ctrl = selection.NewController(editor, opts.Registry, cfg)
	ext.router = input.NewRouter(ext.ctrl, editor, clipboard.NewExporter(opts.Clipboard),
		input.WithNotify(opts.Notify),
		input.WithLogger(opts.Logger.WithComponent("router")))

	ext.ctrl.SetHandlers(selection.Handlers{
		Key:         func(ev key.Event) { ext.router.HandleKey(ev) },
		WindowClick: ext.router.HandleWindowClick,
	})
	ext.removeClick = editor.Root().OnClick(ext.router.HandleClick)

	if opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath, ext.applyReload,
			config.WithErrorHandler(func(err error) {
				ext.log.Warn("config reload: %v", err)
			}))
		if err != nil {
			ext.log.Warn("config watch unavailable: %v", err)
		} else {
			ext.watcher = w
		}
	}

	return ext, nil
}

// Attach registers the extension in the host's component registry.
func (e *Extension) Attach(reg host.Registry) error {
	if err := reg.Register(ExtensionName, e); err != nil {
		return fmt.Errorf("attach extension: %w", err)
	}
	return nil
}

// ApplyOptions replaces the extension's configuration. The active
// selection, if any, is dropped so no module from the old
// configuration stays live.
func (e *Extension) ApplyOptions(opts config.Options) error {
	if err := opts.Validate(e.registry); err != nil {
		return fmt.Errorf("apply options: %w", err)
	}
	e.ctrl.Deselect()
	e.ctrl.SetOptions(opts)
	return nil
}

func (e *Extension) applyReload(opts config.Options) {
	if err := e.ApplyOptions(opts); err != nil {
		e.log.Warn("reloaded config rejected: %v", err)
		return
	}
	e.log.Info("configuration reloaded")
}

// Controller exposes the selection controller.
func (e *Extension) Controller() *selection.Controller {
	return e.ctrl
}

// Router exposes the input router.
func (e *Extension) Router() *input.Router {
	return e.router
}

// Close drops any active selection and detaches the extension from
// the editor. Safe to call more than once.
func (e *Extension) Close() error {
	if e.watcher != nil {
		_ = e.watcher.Close()
		e.watcher = nil
	}
	e.router.Wait()
	e.ctrl.Deselect()
	if e.removeClick != nil {
		e.removeClick()
		e.removeClick = nil
	}
	return nil
}
