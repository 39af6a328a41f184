package app

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/silentHoo/imagesel/internal/clipboard"
	"github.com/silentHoo/imagesel/internal/geometry"
	"github.com/silentHoo/imagesel/internal/host/memdoc"
	"github.com/silentHoo/imagesel/internal/input/key"
	"github.com/silentHoo/imagesel/internal/module"
)

// Options configures the demo application.
type Options struct {
	// ConfigPath is the path to an optional configuration file.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Debug enables debug logging regardless of LogLevel.
	Debug bool
}

// App is a terminal demo driving the selection system against an
// in-memory document. One terminal cell is one document unit, so the
// overlay math is visible directly on screen.
type App struct {
	mu sync.Mutex

	opts   Options
	log    *Logger
	screen tcell.Screen

	doc    *memdoc.Document
	editor *memdoc.Editor
	ext    *Extension
	mem    *clipboard.MemoryWriter

	status      string
	lastButtons tcell.ButtonMask
	running     atomic.Bool
}

// New creates the demo application and its sample document.
func New(opts Options) (*App, error) {
	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(opts.LogLevel)
	if opts.Debug {
		logCfg.Level = LogLevelDebug
	}

	a := &App{
		opts: opts,
		log:  NewLogger(logCfg),
		mem:  &clipboard.MemoryWriter{},
	}

	a.doc = memdoc.New(geometry.RectAt(0, 0, 160, 48))
	a.editor = memdoc.NewEditor(a.doc, geometry.RectAt(4, 2, 110, 40))
	a.editor.AddText(geometry.RectAt(6, 3, 60, 1), "Click an image to select it. Esc deselects, Del removes,")
	a.editor.AddText(geometry.RectAt(6, 4, 60, 1), "Ctrl+C copies, Ctrl+X cuts.")
	a.editor.AddImage(geometry.RectAt(8, 7, 34, 12), geometry.Size{Width: 340, Height: 120}, nil)
	a.editor.AddImage(geometry.RectAt(50, 14, 24, 16), geometry.Size{Width: 240, Height: 160}, nil)
	a.editor.AddText(geometry.RectAt(6, 34, 60, 1), "Some trailing paragraph text below the images.")

	ext, err := NewExtension(a.editor, ExtensionOptions{
		ConfigPath: opts.ConfigPath,
		Clipboard:  a.mem,
		Notify:     a.setStatus,
		Logger:     a.log,
	})
	if err != nil {
		return nil, err
	}
	a.ext = ext

	if err := ext.Attach(a.doc); err != nil {
		return nil, err
	}
	return a, nil
}

// Run initializes the terminal and processes events until the user
// quits. It returns ErrQuit on a normal exit.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer screen.Fini()
	screen.EnableMouse()

	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()
	a.running.Store(true)

	for a.running.Load() {
		a.draw(screen)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			return nil
		case *tcell.EventKey:
			if quit := a.handleKey(ev); quit {
				return ErrQuit
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case nil:
			return nil
		}
	}
	return nil
}

// Shutdown stops the event loop and releases the extension. Safe to
// call from another goroutine and more than once.
func (a *App) Shutdown() {
	if !a.running.CompareAndSwap(true, false) {
		a.ext.Close()
		return
	}

	a.mu.Lock()
	screen := a.screen
	a.mu.Unlock()
	if screen != nil {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	a.ext.Close()
}

func (a *App) setStatus(msg string) {
	a.mu.Lock()
	a.status = msg
	a.mu.Unlock()
}

// handleKey reports whether the app should quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	ctrl := a.ext.Controller()

	switch ev.Key() {
	case tcell.KeyEscape:
		if ctrl.Active() {
			ctrl.Deselect()
			return false
		}
		return true
	case tcell.KeyCtrlQ:
		return true
	}

	kev, ok := translateKey(ev)
	if !ok {
		return false
	}
	a.doc.DispatchKey(kev)
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := geometry.Point{X: x, Y: y}
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 == 0
	released := buttons&tcell.Button1 == 0 && a.lastButtons&tcell.Button1 != 0
	held := buttons&tcell.Button1 != 0 && a.lastButtons&tcell.Button1 != 0
	a.lastButtons = buttons

	resize := a.resizeModule()

	switch {
	case pressed:
		if resize != nil {
			if corner, ok := resize.HandleAt(a.toParentSpace(p)); ok {
				resize.StartDrag(corner, a.toParentSpace(p))
				return
			}
		}
		a.doc.DispatchClick(p)
	case held:
		if resize != nil && resize.Dragging() {
			resize.Drag(a.toParentSpace(p))
		}
	case released:
		if resize != nil && resize.Dragging() {
			resize.EndDrag()
		}
	}
}

// toParentSpace converts a screen point into the overlay's coordinate
// space, which is relative to the editor's positioned parent.
func (a *App) toParentSpace(p geometry.Point) geometry.Point {
	bounds, ok := a.editor.Parent().Bounds()
	if !ok {
		return p
	}
	return geometry.Point{X: p.X - bounds.Left, Y: p.Y - bounds.Top}
}

// resizeModule returns the live resize module instance, or nil.
func (a *App) resizeModule() *module.Resize {
	for _, m := range a.ext.Controller().Modules() {
		if r, ok := m.(*module.Resize); ok {
			return r
		}
	}
	return nil
}

func (a *App) draw(screen tcell.Screen) {
	screen.Clear()

	frame := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if b, ok := a.editor.Root().Bounds(); ok {
		drawBox(screen, b, frame, tcell.RuneHLine, tcell.RuneVLine)
	}

	textStyle := tcell.StyleDefault
	if root, ok := a.editor.Root().(*memdoc.Container); ok {
		for _, child := range root.Children() {
			if run, isText := child.(interface{ Content() string }); isText {
				if b, attached := child.Bounds(); attached {
					drawString(screen, b.Left, b.Top, run.Content(), textStyle)
				}
			}
		}
	}

	imgStyle := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	for _, img := range a.editor.Images() {
		b, ok := img.Bounds()
		if !ok {
			continue
		}
		fillBox(screen, b, imgStyle, '░')
		label := fmt.Sprintf("img %dx%d", b.Width, b.Height)
		drawString(screen, b.Left+1, b.Top, label, imgStyle.Bold(true))
	}

	a.drawOverlay(screen)
	a.drawStatus(screen)
	screen.Show()
}

func (a *App) drawOverlay(screen tcell.Screen) {
	handle := a.ext.Controller().Overlay()
	if handle == nil || !handle.Visible() {
		return
	}

	parent, ok := a.editor.Parent().Bounds()
	if !ok {
		return
	}
	rect := handle.Rect().Translate(parent.Left, parent.Top)

	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	drawBox(screen, rect, style, '-', '|')

	if size := handle.Annotation(module.AnnotationSize); size != "" {
		drawString(screen, rect.Right()-len(size)-1, rect.Bottom()-1, size, style)
	}
	if align := handle.Annotation(module.AnnotationToolbar); align != "" {
		drawString(screen, rect.Left+1, rect.Top, "["+align+"]", style)
	}

	if resize := a.resizeModule(); resize != nil {
		handleStyle := style.Bold(true)
		for _, h := range resize.Handles() {
			cx := h.Left + h.Width/2
			cy := h.Top + h.Height/2
			screen.SetContent(parent.Left+cx, parent.Top+cy, '#', nil, handleStyle)
		}
	}
}

func (a *App) drawStatus(screen tcell.Screen) {
	w, h := screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, style)
	}

	a.mu.Lock()
	status := a.status
	a.mu.Unlock()

	line := "Esc deselect/quit  Ctrl+Q quit"
	if status != "" {
		line = status + "  |  " + line
	}
	if _, writes := a.mem.Last(); writes > 0 {
		line = fmt.Sprintf("clipboard writes: %d  |  %s", writes, line)
	}
	drawString(screen, 1, h-1, line, style)
}

func drawString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range s {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawBox(screen tcell.Screen, r geometry.Rect, style tcell.Style, horiz, vert rune) {
	for x := r.Left; x < r.Right(); x++ {
		screen.SetContent(x, r.Top, horiz, nil, style)
		screen.SetContent(x, r.Bottom()-1, horiz, nil, style)
	}
	for y := r.Top; y < r.Bottom(); y++ {
		screen.SetContent(r.Left, y, vert, nil, style)
		screen.SetContent(r.Right()-1, y, vert, nil, style)
	}
}

func fillBox(screen tcell.Screen, r geometry.Rect, style tcell.Style, fill rune) {
	for y := r.Top; y < r.Bottom(); y++ {
		for x := r.Left; x < r.Right(); x++ {
			screen.SetContent(x, y, fill, nil, style)
		}
	}
}

// translateKey maps a terminal key event onto the host key model. The
// second return is false for keys the selection system never handles.
func translateKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := translateMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	}

	// Terminals report Ctrl-letter chords as dedicated key codes.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		r := rune('a' + ev.Key() - tcell.KeyCtrlA)
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

func translateMods(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(key.ModMeta)
	}
	return out
}
