package selection

import (
	"errors"
	"testing"
	"time"

	"github.com/silentHoo/imagesel/internal/config"
	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/host/memdoc"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/module"
)

// recorder logs lifecycle calls into a shared trace.
type recorder struct {
	name  string
	trace *[]string
}

func (r *recorder) OnCreate()  { *r.trace = append(*r.trace, r.name+".create") }
func (r *recorder) OnUpdate()  { *r.trace = append(*r.trace, r.name+".update") }
func (r *recorder) OnDestroy() { *r.trace = append(*r.trace, r.name+".destroy") }

func recorderRegistry(trace *[]string, names ...string) *module.Registry {
	reg := module.NewRegistry()
	for _, name := range names {
		name := name
		reg.Register(name, func(*module.Context) module.Module {
			return &recorder{name: name, trace: trace}
		})
	}
	return reg
}

type fixture struct {
	doc  *memdoc.Document
	ed   *memdoc.Editor
	img  *memdoc.Image
	ctrl *Controller
}

func newFixture(t *testing.T, reg *module.Registry, opts config.Options) *fixture {
	t.Helper()

	doc := memdoc.New(geometry.RectAt(0, 0, 800, 600))
	ed := memdoc.NewEditor(doc, geometry.RectAt(20, 10, 600, 400))
	img := ed.AddImage(geometry.RectAt(100, 50, 200, 150), geometry.Size{Width: 400, Height: 300}, nil)

	ctrl := NewController(ed, reg, opts)
	ctrl.SetHandlers(Handlers{
		Key:         func(key.Event) {},
		WindowClick: func(host.ClickEvent) {},
	})
	return &fixture{doc: doc, ed: ed, img: img, ctrl: ctrl}
}

func TestSelectPositionsOverlay(t *testing.T) {
	f := newFixture(t, module.Builtins(), config.Default())

	parent := f.ed.Parent().(*memdoc.Container)
	parent.SetScroll(geometry.Scroll{Left: 5, Top: 0})

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	h := f.ctrl.Overlay()
	if h == nil {
		t.Fatal("selection should have an overlay")
	}
	if !h.Attached() {
		t.Error("overlay should be attached to the parent")
	}
	want := geometry.Rect{Left: 84, Top: 40, Width: 200, Height: 150}
	if got := h.Rect(); got != want {
		t.Errorf("overlay rect = %+v, want %+v", got, want)
	}
	if parent.Style("position") != "relative" {
		t.Error("parent should establish a positioning context")
	}
	if f.ed.Root().Style("user-select") != "none" {
		t.Error("text selection should be suppressed on the editor root")
	}
	if f.ed.ClearedSelections() != 1 {
		t.Errorf("ClearTextSelection calls = %d, want 1", f.ed.ClearedSelections())
	}
}

func TestSelectStartsModulesInOrder(t *testing.T) {
	var trace []string
	reg := recorderRegistry(&trace, "a", "b")
	opts := config.Default().Merge(config.Options{
		Modules: []module.Spec{module.Named("a"), module.Named("b")},
	})
	f := newFixture(t, reg, opts)

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := []string{"a.create", "b.create", "a.update", "b.update"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestReselectTearsDownBeforeSetup(t *testing.T) {
	var trace []string
	reg := recorderRegistry(&trace, "a")
	opts := config.Default().Merge(config.Options{
		Modules: []module.Spec{module.Named("a")},
	})
	f := newFixture(t, reg, opts)

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("first Select failed: %v", err)
	}
	first := f.ctrl.Overlay()

	other := f.ed.AddImage(geometry.RectAt(320, 50, 100, 80), geometry.Size{Width: 100, Height: 80}, nil)
	trace = nil
	if err := f.ctrl.Select(other); err != nil {
		t.Fatalf("second Select failed: %v", err)
	}

	if len(trace) < 2 || trace[0] != "a.destroy" || trace[1] != "a.create" {
		t.Errorf("teardown must precede setup, trace = %v", trace)
	}
	if first.Attached() {
		t.Error("previous overlay should be removed from the document")
	}
	if got := f.ctrl.Selected(); got == nil || got.ID() != other.ID() {
		t.Error("second image should be selected")
	}
}

// repositioner asks its owner for a reposition from inside every
// lifecycle hook.
type repositioner struct {
	owner module.Owner
}

func (r *repositioner) OnCreate()  { r.owner.Reposition() }
func (r *repositioner) OnUpdate()  {}
func (r *repositioner) OnDestroy() { r.owner.Reposition() }

func TestModuleMayRepositionDuringLifecycle(t *testing.T) {
	reg := module.NewRegistry()
	reg.Register("repositioner", func(ctx *module.Context) module.Module {
		return &repositioner{owner: ctx.Owner}
	})
	opts := config.Default().Merge(config.Options{
		Modules: []module.Spec{module.Named("repositioner")},
	})
	f := newFixture(t, reg, opts)

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Select(f.img) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Select hung: modules must be able to reposition from OnCreate")
	}

	want := geometry.Rect{Left: 79, Top: 40, Width: 200, Height: 150}
	if got := f.ctrl.Overlay().Rect(); got != want {
		t.Errorf("overlay rect = %+v, want %+v", got, want)
	}

	go func() {
		f.ctrl.Deselect()
		done <- nil
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Deselect hung: modules must be able to reposition from OnDestroy")
	}
}

func TestDeselectIsIdempotent(t *testing.T) {
	var trace []string
	reg := recorderRegistry(&trace, "a")
	opts := config.Default().Merge(config.Options{
		Modules: []module.Spec{module.Named("a")},
	})
	f := newFixture(t, reg, opts)

	// Deselect with no selection at all.
	f.ctrl.Deselect()

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	h := f.ctrl.Overlay()

	trace = nil
	f.ctrl.Deselect()
	f.ctrl.Deselect()

	if len(trace) != 1 || trace[0] != "a.destroy" {
		t.Errorf("repeated Deselect must destroy modules once, trace = %v", trace)
	}
	if h.Attached() {
		t.Error("overlay should be detached")
	}
	if f.ctrl.Active() {
		t.Error("no selection should remain")
	}
}

func TestDeselectRestoresStylesAndListeners(t *testing.T) {
	f := newFixture(t, module.Builtins(), config.Default())

	root := f.ed.Root().(*memdoc.Container)
	parent := f.ed.Parent().(*memdoc.Container)
	keysBefore := parent.KeyListenerCount()
	capturesBefore := f.doc.CaptureListenerCount()

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if parent.KeyListenerCount() != keysBefore+1 {
		t.Error("selection should install a key listener on the parent")
	}
	if f.doc.CaptureListenerCount() != capturesBefore+1 {
		t.Error("selection should install a capture listener")
	}

	f.ctrl.Deselect()

	if parent.KeyListenerCount() != keysBefore {
		t.Error("key listener leaked")
	}
	if f.doc.CaptureListenerCount() != capturesBefore {
		t.Error("capture listener leaked")
	}
	if root.Style("user-select") != "" {
		t.Error("user-select should be restored")
	}
	if parent.Style("position") != "" {
		t.Error("parent position should be restored")
	}
}

func TestSelectUnresolvableModuleFailsClean(t *testing.T) {
	opts := config.Default().Merge(config.Options{
		Modules: []module.Spec{module.Named("NoSuchModule")},
	})
	f := newFixture(t, module.Builtins(), opts)

	parent := f.ed.Parent().(*memdoc.Container)
	keysBefore := parent.KeyListenerCount()

	err := f.ctrl.Select(f.img)
	if !errors.Is(err, module.ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}

	if f.ctrl.Active() {
		t.Error("failed Select must leave no selection")
	}
	if parent.KeyListenerCount() != keysBefore {
		t.Error("failed Select leaked a key listener")
	}
	if f.doc.CaptureListenerCount() != 0 {
		t.Error("failed Select leaked a capture listener")
	}
}

func TestSelectDetachedImage(t *testing.T) {
	f := newFixture(t, module.Builtins(), config.Default())

	f.ed.Root().RemoveChild(f.img)

	if err := f.ctrl.Select(f.img); !errors.Is(err, ErrDetachedImage) {
		t.Errorf("expected ErrDetachedImage, got %v", err)
	}
	if f.ctrl.Active() {
		t.Error("detached image must not become selected")
	}
}

func TestRepositionWithoutSelection(t *testing.T) {
	f := newFixture(t, module.Builtins(), config.Default())
	// Must not panic or create any state.
	f.ctrl.Reposition()
	if f.ctrl.Overlay() != nil {
		t.Error("Reposition must not create an overlay")
	}
}

func TestRepositionTracksImage(t *testing.T) {
	f := newFixture(t, module.Builtins(), config.Default())

	if err := f.ctrl.Select(f.img); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	f.img.SetBounds(geometry.RectAt(130, 80, 200, 150))
	f.ctrl.Reposition()

	want := geometry.Rect{Left: 109, Top: 70, Width: 200, Height: 150}
	if got := f.ctrl.Overlay().Rect(); got != want {
		t.Errorf("overlay rect = %+v, want %+v", got, want)
	}
}
