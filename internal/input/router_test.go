package input

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/silentHoo/imagesel/internal/clipboard"
	"github.com/silentHoo/imagesel/internal/config"
	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
	"github.com/silentHoo/imagesel/internal/host/memdoc"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/module"
	"github.com/silentHoo/imagesel/internal/selection"
)

type fixture struct {
	doc    *memdoc.Document
	ed     *memdoc.Editor
	img    *memdoc.Image
	ctrl   *selection.Controller
	router *Router
	mem    *clipboard.MemoryWriter
	notes  []string
}

func testPixels() image.Image {
	px := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			px.Set(x, y, color.RGBA{A: 255})
		}
	}
	return px
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doc := memdoc.New(geometry.RectAt(0, 0, 800, 600))
	ed := memdoc.NewEditor(doc, geometry.RectAt(20, 10, 600, 400))
	img := ed.AddImage(geometry.RectAt(100, 50, 200, 150), geometry.Size{Width: 8, Height: 8}, testPixels())

	f := &fixture{doc: doc, ed: ed, img: img, mem: &clipboard.MemoryWriter{}}
	f.ctrl = selection.NewController(ed, module.Builtins(), config.Default())
	f.router = NewRouter(f.ctrl, ed, clipboard.NewExporter(f.mem),
		WithNotify(func(msg string) { f.notes = append(f.notes, msg) }))
	f.ctrl.SetHandlers(selection.Handlers{
		Key:         func(ev key.Event) { f.router.HandleKey(ev) },
		WindowClick: f.router.HandleWindowClick,
	})
	// In the real wiring the editor root click listener is permanent.
	ed.Root().OnClick(f.router.HandleClick)
	return f
}

func (f *fixture) selectImage(t *testing.T) {
	t.Helper()
	f.router.HandleClick(host.ClickEvent{Pos: geometry.Point{X: 150, Y: 100}, Target: f.img})
	if !f.ctrl.Active() {
		t.Fatal("image should be selected")
	}
}

func TestClickOnImageSelects(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if got := f.ctrl.Selected(); got == nil || got.ID() != f.img.ID() {
		t.Error("clicked image should be the selection")
	}
}

func TestClickOnTextDeselects(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	text := f.ed.AddText(geometry.RectAt(30, 220, 300, 20), "hello")
	f.router.HandleClick(host.ClickEvent{Pos: geometry.Point{X: 40, Y: 225}, Target: text})

	if f.ctrl.Active() {
		t.Error("clicking text should deselect")
	}
}

func TestClickOnSelectedImageRecreatesSelection(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)
	first := f.ctrl.Overlay().ID()

	f.router.HandleClick(host.ClickEvent{Pos: geometry.Point{X: 150, Y: 100}, Target: f.img})

	if !f.ctrl.Active() {
		t.Fatal("image should be selected again")
	}
	if f.ctrl.Overlay().ID() == first {
		t.Error("reselecting should create a fresh overlay")
	}
}

func TestDispatchedClickOnSelectedImageReselects(t *testing.T) {
	f := newFixture(t)

	f.doc.DispatchClick(geometry.Point{X: 150, Y: 100})
	if !f.ctrl.Active() {
		t.Fatal("first click should select the image")
	}
	first := f.ctrl.Overlay().ID()

	// The overlay now covers the image but must not swallow the click.
	f.doc.DispatchClick(geometry.Point{X: 150, Y: 100})
	if !f.ctrl.Active() {
		t.Fatal("second click should reselect the image")
	}
	if f.ctrl.Overlay().ID() == first {
		t.Error("reselecting through the document should recreate the overlay")
	}
}

func TestWindowClickOutsideDeselects(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	f.router.HandleWindowClick(host.ClickEvent{Pos: geometry.Point{X: 700, Y: 500}})

	if f.ctrl.Active() {
		t.Error("clicking outside the editor should deselect")
	}
}

func TestWindowClickInsideKeepsSelection(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	// Inside the editable area the capture handler defers to the
	// regular click path, which may reselect.
	f.router.HandleWindowClick(host.ClickEvent{Pos: geometry.Point{X: 150, Y: 100}})

	if !f.ctrl.Active() {
		t.Error("clicks inside the editor must not deselect via the capture path")
	}
}

func TestWindowClickWithoutSelection(t *testing.T) {
	f := newFixture(t)
	// Must be a no-op, not a panic.
	f.router.HandleWindowClick(host.ClickEvent{Pos: geometry.Point{X: 700, Y: 500}})
}

func TestKeyWithoutSelectionPassesThrough(t *testing.T) {
	f := newFixture(t)

	if f.router.HandleKey(key.NewSpecialEvent(key.KeyDelete, 0)) {
		t.Error("keys with no selection must pass through")
	}
}

func TestDeleteKeyRemovesImage(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if !f.router.HandleKey(key.NewSpecialEvent(key.KeyDelete, 0)) {
		t.Fatal("delete should be consumed")
	}

	if len(f.ed.Images()) != 0 {
		t.Error("image should be removed from the document")
	}
	if f.ctrl.Active() {
		t.Error("selection should be dropped after delete")
	}
}

func TestBackspaceAlsoDeletes(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if !f.router.HandleKey(key.NewSpecialEvent(key.KeyBackspace, 0)) {
		t.Fatal("backspace should be consumed")
	}
	if len(f.ed.Images()) != 0 {
		t.Error("image should be removed from the document")
	}
}

func TestCopyChordWritesClipboard(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if !f.router.HandleKey(key.NewRuneEvent('c', key.ModCtrl)) {
		t.Fatal("copy chord should be consumed")
	}
	f.router.Wait()

	if _, writes := f.mem.Last(); writes != 1 {
		t.Errorf("clipboard writes = %d, want 1", writes)
	}
	if len(f.ed.Images()) != 1 {
		t.Error("copy must not remove the image")
	}
	if !f.ctrl.Active() {
		t.Error("copy must not deselect")
	}
}

func TestCutChordCopiesThenDeletes(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if !f.router.HandleKey(key.NewRuneEvent('x', key.ModCtrl)) {
		t.Fatal("cut chord should be consumed")
	}
	f.router.Wait()

	if _, writes := f.mem.Last(); writes != 1 {
		t.Errorf("clipboard writes = %d, want 1", writes)
	}
	if len(f.ed.Images()) != 0 {
		t.Error("cut should remove the image after a successful copy")
	}
	if f.ctrl.Active() {
		t.Error("cut should drop the selection")
	}
}

func TestCutFailureKeepsImage(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)
	f.mem.Fail(errors.New("clipboard unavailable"))

	if !f.router.HandleKey(key.NewRuneEvent('x', key.ModCtrl)) {
		t.Fatal("cut chord should be consumed")
	}
	f.router.Wait()

	if len(f.ed.Images()) != 1 {
		t.Error("failed cut must not remove the image")
	}
	if !f.ctrl.Active() {
		t.Error("failed cut must keep the selection")
	}
	if len(f.notes) == 0 {
		t.Error("failed cut should surface a diagnostic")
	}
}

func TestUnhandledKeyPassesThrough(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if f.router.HandleKey(key.NewRuneEvent('z', 0)) {
		t.Error("plain runes should pass through to the editor")
	}
	if !f.ctrl.Active() {
		t.Error("unhandled keys must not change the selection")
	}
}

func TestMetaChordsWork(t *testing.T) {
	f := newFixture(t)
	f.selectImage(t)

	if !f.router.HandleKey(key.NewRuneEvent('C', key.ModMeta)) {
		t.Error("meta-C should be treated as a copy chord")
	}
	f.router.Wait()
}
