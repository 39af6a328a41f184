package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host/memdoc"
	"github.com/silentHoo/imagesel/internal/overlay"
)

// repositioner re-runs overlay positioning the way the selection
// controller would.
type repositioner struct {
	ctx       *Context
	container *memdoc.Container
	calls     int
}

func (r *repositioner) Reposition() {
	r.calls++
	overlay.Position(r.ctx.Overlay, r.ctx.Image, r.container)
}

func newModuleFixture(t *testing.T) (*Context, *repositioner) {
	t.Helper()

	doc := memdoc.New(geometry.RectAt(0, 0, 800, 600))
	ed := memdoc.NewEditor(doc, geometry.RectAt(20, 10, 600, 400))
	img := ed.AddImage(geometry.RectAt(100, 50, 200, 150), geometry.Size{Width: 400, Height: 300}, nil)

	parent, ok := ed.Parent().(*memdoc.Container)
	if !ok {
		t.Fatal("parent should be a memdoc container")
	}
	parent.SetScroll(geometry.Scroll{Left: 5})

	ctx := &Context{
		Image:   img,
		Overlay: overlay.New(nil),
		Options: map[string]any{},
	}
	owner := &repositioner{ctx: ctx, container: parent}
	ctx.Owner = owner

	overlay.Position(ctx.Overlay, img, parent)
	return ctx, owner
}

func TestDisplaySizeLabel(t *testing.T) {
	ctx, _ := newModuleFixture(t)

	m := NewDisplaySize(ctx)
	m.OnCreate()
	m.OnUpdate()

	if got := ctx.Overlay.Annotation(AnnotationSize); got != "200 × 150" {
		t.Errorf("size annotation = %q, want %q", got, "200 × 150")
	}

	m.OnDestroy()
	if ctx.Overlay.Annotation(AnnotationSize) != "" {
		t.Error("size annotation should be removed on destroy")
	}
}

func TestDisplaySizeDetachedImage(t *testing.T) {
	ctx, _ := newModuleFixture(t)
	m := NewDisplaySize(ctx)
	m.OnUpdate()

	ctx.Image.(*memdoc.Image).SetAttached(false)
	m.OnUpdate()

	if ctx.Overlay.Annotation(AnnotationSize) != "" {
		t.Error("detached image should clear the size label, not error")
	}
}

func TestToolbarAlign(t *testing.T) {
	ctx, owner := newModuleFixture(t)

	tb, ok := NewToolbar(ctx).(*Toolbar)
	if !ok {
		t.Fatal("NewToolbar should return *Toolbar")
	}
	tb.OnCreate()

	if ctx.Overlay.Annotation(AnnotationToolbar) == "" {
		t.Error("toolbar should advertise its actions")
	}

	tb.Align(AlignLeft)
	if ctx.Image.Style("float") != "left" {
		t.Errorf("float style = %q, want %q", ctx.Image.Style("float"), "left")
	}
	if tb.Current() != AlignLeft {
		t.Errorf("current alignment = %q, want %q", tb.Current(), AlignLeft)
	}
	if owner.calls == 0 {
		t.Error("aligning should request a reposition")
	}

	tb.Align(AlignCenter)
	if ctx.Image.Style("float") != "" {
		t.Error("switching alignment should clear the previous float")
	}
	if ctx.Image.Style("display") != "block" {
		t.Errorf("display style = %q, want %q", ctx.Image.Style("display"), "block")
	}

	// Re-applying toggles off.
	tb.Align(AlignCenter)
	if tb.Current() != AlignNone {
		t.Errorf("re-applying should toggle off, got %q", tb.Current())
	}
	if ctx.Image.Style("display") != "" {
		t.Error("toggling off should clear alignment styles")
	}

	tb.OnDestroy()
	if ctx.Overlay.Annotation(AnnotationToolbar) != "" {
		t.Error("toolbar annotation should be removed on destroy")
	}
}

func TestResizeHandleGeometry(t *testing.T) {
	ctx, _ := newModuleFixture(t)

	rz, ok := NewResize(ctx).(*Resize)
	if !ok {
		t.Fatal("NewResize should return *Resize")
	}
	rz.OnCreate()

	// Overlay rect is {84, 40, 200, 150}; the top-left handle is a
	// 12px square centered on the overlay corner.
	want := geometry.RectAt(78, 34, 12, 12)
	if got := rz.Handles()[CornerTopLeft]; got != want {
		t.Errorf("top-left handle = %+v, want %+v", got, want)
	}

	corner, ok := rz.HandleAt(geometry.Point{X: 84, Y: 40})
	if !ok || corner != CornerTopLeft {
		t.Errorf("HandleAt(84,40) = %v, %v; want top-left", corner, ok)
	}
	if _, ok := rz.HandleAt(geometry.Point{X: 150, Y: 100}); ok {
		t.Error("point inside the overlay body should not hit a handle")
	}
}

func TestResizeDragKeepsAspect(t *testing.T) {
	ctx, owner := newModuleFixture(t)

	rz := NewResize(ctx).(*Resize)
	rz.OnCreate()

	rz.StartDrag(CornerBottomRight, geometry.Point{X: 300, Y: 200})
	rz.Drag(geometry.Point{X: 350, Y: 230})
	rz.EndDrag()

	b, _ := ctx.Image.Bounds()
	if b.Width != 250 {
		t.Errorf("image width = %d, want 250", b.Width)
	}
	// 150/200 aspect applied to the new width.
	if b.Height != 188 {
		t.Errorf("image height = %d, want 188", b.Height)
	}
	if owner.calls == 0 {
		t.Error("dragging should request repositions")
	}
	if rz.Dragging() {
		t.Error("EndDrag should stop the drag")
	}
}

func TestResizeDragClampsToMinWidth(t *testing.T) {
	ctx, _ := newModuleFixture(t)
	ctx.Options["minWidth"] = 50

	rz := NewResize(ctx).(*Resize)
	rz.OnCreate()

	rz.StartDrag(CornerBottomRight, geometry.Point{X: 300, Y: 200})
	rz.Drag(geometry.Point{X: 0, Y: 200})

	b, _ := ctx.Image.Bounds()
	if b.Width != 50 {
		t.Errorf("image width = %d, want clamp at 50", b.Width)
	}
}

func TestResizeLeftCornerDragsInverted(t *testing.T) {
	ctx, _ := newModuleFixture(t)

	rz := NewResize(ctx).(*Resize)
	rz.OnCreate()

	// Moving the left edge further left grows the image.
	rz.StartDrag(CornerTopLeft, geometry.Point{X: 100, Y: 50})
	rz.Drag(geometry.Point{X: 60, Y: 50})

	b, _ := ctx.Image.Bounds()
	if b.Width != 240 {
		t.Errorf("image width = %d, want 240", b.Width)
	}
}

func TestLuaScriptedModule(t *testing.T) {
	script := filepath.Join(t.TempDir(), "badge.lua")
	src := `
updates = 0

function on_create()
  imagesel.annotate("badge", "img " .. image.width .. "x" .. image.height)
end

function on_update()
  updates = updates + 1
end

function on_destroy()
  imagesel.remove_annotation("badge")
end
`
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	ctx, _ := newModuleFixture(t)
	o := NewOrchestrator(Builtins())

	if err := o.Initialize(ctx, []Spec{Scripted(script)}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if got := ctx.Overlay.Annotation("badge"); got != "img 200x150" {
		t.Errorf("badge annotation = %q, want %q", got, "img 200x150")
	}

	o.Teardown()
	if ctx.Overlay.Annotation("badge") != "" {
		t.Error("script on_destroy should remove the badge")
	}
}

func TestLuaScriptErrorRecorded(t *testing.T) {
	script := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(script, []byte(`error("boom")`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	ctx, _ := newModuleFixture(t)
	m := NewLuaConstructor(script)(ctx)
	m.OnCreate()

	errM, ok := m.(interface{ Err() error })
	if !ok {
		t.Fatal("lua module should expose Err()")
	}
	if errM.Err() == nil {
		t.Error("script error should be recorded")
	}

	// Destroy must still clean up without panicking.
	m.OnDestroy()
}
