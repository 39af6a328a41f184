package module

import (
	"math"
	"strconv"

	"github.com/silentHoo/imagesel/internal/geometry"
)

// Resize drag-handle geometry.
const (
	// handleSize is the square edge length of one drag handle.
	handleSize = 12

	// defaultMinWidth is the smallest width a drag may shrink the
	// image to, unless overridden by the "minWidth" option.
	defaultMinWidth = 16
)

// Corner identifies one of the four resize handles.
type Corner int

// Handle corners, clockwise from top-left.
const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

// Resize attaches four corner drag handles to the overlay. Dragging a
// handle rescales the image proportionally around its natural aspect
// ratio and requests a reposition after every step.
type Resize struct {
	ctx *Context

	handles  [4]geometry.Rect
	minWidth int

	dragging  bool
	corner    Corner
	dragStart geometry.Point
	startRect geometry.Rect
}

// NewResize constructs the resize module.
func NewResize(ctx *Context) Module {
	return &Resize{
		ctx:      ctx,
		minWidth: ctx.IntOption("minWidth", defaultMinWidth),
	}
}

// OnCreate computes the initial handle positions.
func (r *Resize) OnCreate() {
	r.OnUpdate()
}

// OnUpdate recomputes handle rectangles from the overlay's geometry.
func (r *Resize) OnUpdate() {
	if r.ctx == nil || r.ctx.Overlay == nil {
		return
	}
	o := r.ctx.Overlay.Rect()

	r.handles[CornerTopLeft] = handleRect(o.Left, o.Top)
	r.handles[CornerTopRight] = handleRect(o.Right(), o.Top)
	r.handles[CornerBottomRight] = handleRect(o.Right(), o.Bottom())
	r.handles[CornerBottomLeft] = handleRect(o.Left, o.Bottom())
}

// OnDestroy ends any drag in progress.
func (r *Resize) OnDestroy() {
	r.dragging = false
}

// Handles returns the four handle rectangles, indexed by Corner.
func (r *Resize) Handles() [4]geometry.Rect {
	return r.handles
}

// HandleAt returns the corner whose handle contains p.
func (r *Resize) HandleAt(p geometry.Point) (Corner, bool) {
	for corner, h := range r.handles {
		if h.Contains(p) {
			return Corner(corner), true
		}
	}
	return 0, false
}

// StartDrag begins a drag on the given corner.
func (r *Resize) StartDrag(corner Corner, p geometry.Point) {
	if r.ctx == nil || r.ctx.Image == nil {
		return
	}
	b, ok := r.ctx.Image.Bounds()
	if !ok {
		return
	}

	r.dragging = true
	r.corner = corner
	r.dragStart = p
	r.startRect = b
}

// Drag resizes the image to follow the pointer. Width tracks the
// horizontal pointer movement; height follows the image's aspect
// ratio at drag start.
func (r *Resize) Drag(p geometry.Point) {
	if !r.dragging || r.ctx == nil || r.ctx.Image == nil {
		return
	}

	dx := p.X - r.dragStart.X
	if r.corner == CornerTopLeft || r.corner == CornerBottomLeft {
		dx = -dx
	}

	width := r.startRect.Width + dx
	if width < r.minWidth {
		width = r.minWidth
	}

	height := width
	if r.startRect.Width > 0 {
		ratio := float64(r.startRect.Height) / float64(r.startRect.Width)
		height = int(math.Round(float64(width) * ratio))
	}

	r.ctx.Image.SetStyle("width", pxValue(width))
	r.ctx.Image.SetStyle("height", pxValue(height))

	if r.ctx.Owner != nil {
		r.ctx.Owner.Reposition()
	}
}

// EndDrag finishes the drag in progress.
func (r *Resize) EndDrag() {
	r.dragging = false
}

// Dragging reports whether a drag is in progress.
func (r *Resize) Dragging() bool {
	return r.dragging
}

// handleRect returns a handle square centered on the given point.
func handleRect(x, y int) geometry.Rect {
	return geometry.RectAt(x-handleSize/2, y-handleSize/2, handleSize, handleSize)
}

func pxValue(n int) string {
	return strconv.Itoa(n) + "px"
}
