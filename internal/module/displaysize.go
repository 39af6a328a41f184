package module

import "fmt"

// AnnotationSize is the overlay annotation the size readout writes.
const AnnotationSize = "size"

// DisplaySize shows the selected image's current display dimensions
// on the overlay. It assumes geometry is already settled, so it is
// usually configured after Resize.
type DisplaySize struct {
	ctx *Context
}

// NewDisplaySize constructs the size readout module.
func NewDisplaySize(ctx *Context) Module {
	return &DisplaySize{ctx: ctx}
}

// OnCreate is a no-op; the label is written on the first update pass.
func (d *DisplaySize) OnCreate() {}

// OnUpdate refreshes the size label from the image's current bounds.
// A detached image clears the label instead of erroring.
func (d *DisplaySize) OnUpdate() {
	if d.ctx == nil || d.ctx.Overlay == nil {
		return
	}

	if d.ctx.Image == nil {
		d.ctx.Overlay.RemoveAnnotation(AnnotationSize)
		return
	}
	b, ok := d.ctx.Image.Bounds()
	if !ok {
		d.ctx.Overlay.RemoveAnnotation(AnnotationSize)
		return
	}

	d.ctx.Overlay.SetAnnotation(AnnotationSize, fmt.Sprintf("%d × %d", b.Width, b.Height))
}

// OnDestroy removes the label from the overlay.
func (d *DisplaySize) OnDestroy() {
	if d.ctx != nil && d.ctx.Overlay != nil {
		d.ctx.Overlay.RemoveAnnotation(AnnotationSize)
	}
}
