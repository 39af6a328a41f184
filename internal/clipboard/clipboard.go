// Package clipboard renders selected images to a portable encoding and
// hands them to a clipboard writer. The exporter permits at most one
// export at a time so repeated copy chords cannot pile up behind a slow
// system clipboard.
package clipboard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"sync"
	"sync/atomic"

	sysclip "github.com/atotto/clipboard"
	"golang.org/x/image/draw"

	"github.com/silentHoo/imagesel/internal/host"
)

// Writer delivers an encoded image payload to a clipboard.
type Writer interface {
	Write(payload string) error
}

// SystemWriter writes to the operating system clipboard.
type SystemWriter struct{}

func (SystemWriter) Write(payload string) error {
	if err := sysclip.WriteAll(payload); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// MemoryWriter retains the last payload written. It exists for tests
// and for the demo app, where a real clipboard may be unavailable.
type MemoryWriter struct {
	mu      sync.Mutex
	last    string
	writes  int
	failErr error
}

// Fail makes every subsequent Write return err. Pass nil to clear.
func (m *MemoryWriter) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MemoryWriter) Write(payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.last = payload
	m.writes++
	return nil
}

// Last returns the most recent payload and how many writes succeeded.
func (m *MemoryWriter) Last() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.writes
}

// Exporter encodes images and writes them through a Writer.
// A zero Exporter is not usable; construct with NewExporter.
type Exporter struct {
	writer   Writer
	inFlight atomic.Bool
}

func NewExporter(w Writer) *Exporter {
	return &Exporter{writer: w}
}

// Export renders img at its natural size, encodes it as a PNG data URI
// and writes the result to the clipboard. Only one export may be in
// flight at a time; concurrent calls fail with ErrExportInFlight.
func (e *Exporter) Export(img host.Image) error {
	if img == nil {
		return ErrNoPixels
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return ErrExportInFlight
	}
	defer e.inFlight.Store(false)

	payload, err := Encode(img)
	if err != nil {
		return err
	}
	return e.writer.Write(payload)
}

// Busy reports whether an export is currently in flight.
func (e *Exporter) Busy() bool {
	return e.inFlight.Load()
}

// Encode renders img at its natural size and returns a PNG data URI.
func Encode(img host.Image) (string, error) {
	src := img.Pixels()
	if src == nil {
		return "", ErrNoPixels
	}

	natural := img.NaturalSize()
	if natural.IsZero() {
		natural.Width = src.Bounds().Dx()
		natural.Height = src.Bounds().Dy()
	}
	if natural.Width <= 0 || natural.Height <= 0 {
		return "", ErrNoPixels
	}

	rendered := rasterize(src, natural.Width, natural.Height)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// rasterize scales src to w x h. The display size of a selected image
// may differ from its natural size; the clipboard always receives the
// natural-size rendering.
func rasterize(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
