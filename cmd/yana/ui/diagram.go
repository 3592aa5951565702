package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"yana/internal/logging"
	"yana/internal/mermaid"
)

// diagramState tracks the render lifecycle.
type diagramState int

const (
	diagramIdle diagramState = iota
	diagramRendering
	diagramRendered
	diagramFailed
)

// DiagramRenderedMsg carries a finished render back into the loop.
type DiagramRenderedMsg struct {
	Gen     int
	Content string
}

// DiagramFailedMsg carries a render failure back into the loop.
type DiagramFailedMsg struct {
	Gen int
	Err error
}

// renderFunc produces the visual form of a diagram description. Swapped
// out in tests to control timing and failures.
type renderFunc func(src string, opts mermaid.Options) (string, error)

func engineRender(src string, opts mermaid.Options) (string, error) {
	g, err := mermaid.Parse(src)
	if err != nil {
		return "", err
	}
	return mermaid.Render(g, opts), nil
}

// DiagramView owns the diagram pane and keeps it consistent with the
// latest diagram description. Rendering runs off the UI loop; every
// SetSource bumps a generation counter, and a finished render is applied
// only if its generation is still current and the view is still open.
// A superseded or post-close result is discarded, so a late render can
// never paint into a stale pane.
type DiagramView struct {
	styles   Styles
	viewport viewport.Model
	width    int
	height   int

	gen     int
	state   diagramState
	content string // the applied canvas; "" unless state is rendered
	err     error
	closed  bool

	render renderFunc
}

// NewDiagramView creates the diagram pane.
func NewDiagramView(styles Styles, width, height int) *DiagramView {
	vp := viewport.New(width, height)
	return &DiagramView{
		styles:   styles,
		viewport: vp,
		width:    width,
		height:   height,
		render:   engineRender,
	}
}

// SetSize resizes the pane. The caller re-renders via SetSource when the
// resize settles; until then the old canvas simply scrolls.
func (v *DiagramView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height
}

// SetSource replaces the diagram description. Prior content is cleared
// synchronously; a non-empty description starts an asynchronous render
// whose result is delivered as a DiagramRenderedMsg / DiagramFailedMsg.
// Returns nil when there is nothing to render.
func (v *DiagramView) SetSource(src string) tea.Cmd {
	v.gen++
	v.content = ""
	v.err = nil
	v.viewport.SetContent("")

	if v.closed {
		return nil
	}
	if strings.TrimSpace(src) == "" {
		v.state = diagramIdle
		return nil
	}

	v.state = diagramRendering
	gen := v.gen
	render := v.render
	opts := v.renderOptions()
	logging.Render("render start gen=%d len=%d", gen, len(src))

	return func() tea.Msg {
		out, err := render(src, opts)
		if err != nil {
			return DiagramFailedMsg{Gen: gen, Err: err}
		}
		return DiagramRenderedMsg{Gen: gen, Content: out}
	}
}

// renderOptions is the fixed render configuration: the canvas fills the
// pane width, never shrinks, and short diagrams keep a minimum height.
func (v *DiagramView) renderOptions() mermaid.Options {
	width := v.width
	if width < 20 {
		width = 20
	}
	minHeight := v.height
	if minHeight < DiagramMinHeight {
		minHeight = DiagramMinHeight
	}
	return mermaid.Options{
		Width:      width,
		MinHeight:  minHeight,
		BoxPadding: DiagramPadding,
	}
}

// Update applies render results, discarding anything stale.
func (v *DiagramView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DiagramRenderedMsg:
		if msg.Gen != v.gen || v.closed {
			logging.Render("discarding stale render gen=%d (current=%d closed=%v)", msg.Gen, v.gen, v.closed)
			return nil
		}
		v.state = diagramRendered
		v.content = msg.Content
		v.viewport.SetContent(msg.Content)
		v.viewport.GotoTop()
		logging.Render("render applied gen=%d", msg.Gen)
		return nil

	case DiagramFailedMsg:
		if msg.Gen != v.gen || v.closed {
			logging.Render("discarding stale failure gen=%d (current=%d closed=%v)", msg.Gen, v.gen, v.closed)
			return nil
		}
		v.state = diagramFailed
		v.err = msg.Err
		v.content = ""
		v.viewport.SetContent("")
		logging.RenderError("render failed gen=%d: %v", msg.Gen, msg.Err)
		return nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// View renders the pane for the current lifecycle state.
func (v *DiagramView) View() string {
	if v.closed {
		return ""
	}
	switch v.state {
	case diagramIdle:
		return ""
	case diagramRendering:
		return v.styles.Muted.Render("рендеринг діаграми…")
	case diagramFailed:
		return v.styles.Notice.Render("⚠ діаграму не вдалося відобразити")
	default:
		return v.viewport.View()
	}
}

// Content exposes the currently applied canvas (for tests and export).
func (v *DiagramView) Content() string {
	return v.content
}

// Rendering reports whether a render is in flight.
func (v *DiagramView) Rendering() bool {
	return v.state == diagramRendering
}

// Failed reports whether the last render failed.
func (v *DiagramView) Failed() bool {
	return v.state == diagramFailed
}

// Close marks the view dead and clears the pane. Any render still in
// flight resolves into the void: its generation can never match again.
func (v *DiagramView) Close() {
	v.closed = true
	v.gen++
	v.state = diagramIdle
	v.content = ""
	v.viewport.SetContent("")
}
