package module

// AnnotationToolbar is the overlay annotation listing the toolbar's
// available actions.
const AnnotationToolbar = "toolbar"

// Alignment is one of the toolbar's image alignment actions.
type Alignment string

// Toolbar alignments.
const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Toolbar offers alignment actions for the selected image. Applying
// an alignment writes float/margin styles onto the image element and
// requests a reposition so the overlay follows any reflow.
type Toolbar struct {
	ctx     *Context
	current Alignment
}

// NewToolbar constructs the toolbar module.
func NewToolbar(ctx *Context) Module {
	return &Toolbar{ctx: ctx}
}

// OnCreate advertises the available actions on the overlay.
func (t *Toolbar) OnCreate() {
	if t.ctx != nil && t.ctx.Overlay != nil {
		t.ctx.Overlay.SetAnnotation(AnnotationToolbar, "left center right")
	}
}

// OnUpdate is a no-op; the toolbar has no geometry of its own.
func (t *Toolbar) OnUpdate() {}

// OnDestroy removes the toolbar from the overlay.
func (t *Toolbar) OnDestroy() {
	if t.ctx != nil && t.ctx.Overlay != nil {
		t.ctx.Overlay.RemoveAnnotation(AnnotationToolbar)
	}
}

// Current returns the applied alignment.
func (t *Toolbar) Current() Alignment {
	return t.current
}

// Align applies an alignment to the selected image. Selecting the
// already applied alignment toggles it off.
func (t *Toolbar) Align(a Alignment) {
	if t.ctx == nil || t.ctx.Image == nil {
		return
	}
	img := t.ctx.Image

	if t.current == a {
		a = AlignNone
	}

	img.RemoveStyle("float")
	img.RemoveStyle("display")
	img.RemoveStyle("margin")

	switch a {
	case AlignLeft:
		img.SetStyle("float", "left")
		img.SetStyle("margin", "0 1em 1em 0")
	case AlignCenter:
		img.SetStyle("display", "block")
		img.SetStyle("margin", "auto")
	case AlignRight:
		img.SetStyle("float", "right")
		img.SetStyle("margin", "0 0 1em 1em")
	}

	t.current = a
	if t.ctx.Owner != nil {
		t.ctx.Owner.Reposition()
	}
}
