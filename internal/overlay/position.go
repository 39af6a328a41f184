package overlay

import (
	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host"
)

// borderInset compensates for the overlay's one-unit border so the
// decoration frames the image instead of covering its left edge.
const borderInset = 1

// Position recomputes the overlay rectangle from the image's and
// container's current bounds and the container's scroll offsets, and
// writes the result onto the overlay's style.
//
// It returns without writing if the overlay or image is absent, or if
// either can no longer be measured. This guard is what keeps
// reposition safe during teardown races: a stale reference leaves the
// overlay invisible rather than crashing.
func Position(h *Handle, img host.Image, container host.Container) {
	if h == nil || img == nil || container == nil {
		return
	}

	imgRect, ok := img.Bounds()
	if !ok {
		h.hide()
		return
	}
	containerRect, ok := container.Bounds()
	if !ok {
		h.hide()
		return
	}
	scroll := container.ScrollOffset()

	h.setRect(geometry.Rect{
		Left:   imgRect.Left - containerRect.Left - borderInset + scroll.Left,
		Top:    imgRect.Top - containerRect.Top + scroll.Top,
		Width:  imgRect.Width,
		Height: imgRect.Height,
	})
}
