// Package main provides the yana CLI entry point.
// This file implements the interactive studio using bubbletea: a prompt
// form on the bottom, flow tabs on top, and a screen list next to the
// detail pane (screen card, flow diagram, or one of the inspector panels).
package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yana/cmd/yana/config"
	"yana/cmd/yana/ui"
	"yana/internal/logging"
	"yana/internal/store"
	"yana/internal/workflow"
)

// submitter is the backend boundary. The real implementation is
// api.Client; tests substitute a stub to script responses and timing.
type submitter interface {
	Submit(ctx context.Context, query string) (*workflow.Result, error)
}

// studioStatus is the submission lifecycle shown in the status line.
type studioStatus int

const (
	statusIdle studioStatus = iota
	statusWaiting
	statusReady
	statusError
)

// detailPane selects what the right-hand pane shows.
type detailPane int

const (
	paneCard detailPane = iota
	paneDiagram
	panePanels
)

// Messages for tea updates. Both carry the submission generation so a
// reply from an abandoned submission can be recognized and dropped: when
// the user resubmits while a request is in flight, only the latest
// generation is ever applied.
type (
	searchResultMsg struct {
		Gen    int
		Query  string
		Result *workflow.Result
	}
	searchErrorMsg struct {
		Gen int
		Err error
	}
	// restoredResultMsg reloads the last stored submission on startup.
	restoredResultMsg struct {
		Query  string
		Result *workflow.Result
	}
)

// studioModel is the main model for the interactive studio.
type studioModel struct {
	// UI components
	textinput textinput.Model
	spinner   spinner.Model
	styles    ui.Styles
	diagram   *ui.DiagramView
	panels    *ui.Panels
	debouncer *ui.Debouncer

	// Backend
	backend submitter
	history *store.History
	cfg     config.Config

	// Submission state
	status    studioStatus
	searchGen int
	query     string
	result    *workflow.Result
	err       error

	// Selection state
	flowIdx   int
	screenIdx int
	pane      detailPane
	panelKind ui.PanelKind
	browsing  bool // keys navigate instead of feeding the prompt

	// Window
	width  int
	height int
	ready  bool
}

// newStudioModel assembles the studio. history may be nil; recording is
// best-effort and never blocks the flow.
func newStudioModel(cfg config.Config, backend submitter, history *store.History) studioModel {
	styles := ui.DefaultStyles()
	switch cfg.Theme {
	case "dark":
		styles = ui.NewStyles(ui.DarkTheme())
	case "light":
		styles = ui.NewStyles(ui.LightTheme())
	}

	ti := textinput.New()
	ti.Placeholder = "Опишіть бізнес-вимогу… (Enter — надіслати, Ctrl+C — вихід)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return studioModel{
		textinput: ti,
		spinner:   sp,
		styles:    styles,
		diagram:   ui.NewDiagramView(styles, 80, ui.DiagramMinHeight),
		panels:    ui.NewPanels(styles, 80),
		debouncer: ui.NewDebouncer(ui.DefaultResizeDuration),
		backend:   backend,
		history:   history,
		cfg:       cfg,
		pane:      paneDiagram,
	}
}

func (m studioModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.loadLatest(),
	)
}

// loadLatest reopens the studio where the designer left off: the most
// recent stored submission, if any, is restored as the current result.
func (m studioModel) loadLatest() tea.Cmd {
	history := m.history
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		entry, err := history.Latest()
		if err != nil || entry == nil {
			return nil
		}
		result, err := workflow.Decode(bytes.NewReader(entry.Raw))
		if err != nil {
			logging.Store("failed to restore submission %d: %v", entry.ID, err)
			return nil
		}
		return restoredResultMsg{Query: entry.Query, Result: result}
	}
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.diagram.Close()
			return m, tea.Quit

		case tea.KeyEsc:
			// Esc toggles between the prompt and browse mode.
			if m.result == nil {
				return m, nil
			}
			m.browsing = !m.browsing
			if m.browsing {
				m.textinput.Blur()
			} else {
				m.textinput.Focus()
			}
			return m, nil

		case tea.KeyEnter:
			if m.status != statusWaiting && !m.browsing {
				return m.handleSubmit()
			}
			return m, nil

		case tea.KeyTab:
			return m.selectFlow(m.flowIdx + 1)

		case tea.KeyShiftTab:
			return m.selectFlow(m.flowIdx - 1)

		case tea.KeyUp:
			return m.selectScreen(m.screenIdx - 1)

		case tea.KeyDown:
			return m.selectScreen(m.screenIdx + 1)
		}

		if m.browsing {
			switch msg.String() {
			case "d":
				if m.pane == paneDiagram {
					m.pane = paneCard
				} else {
					m.pane = paneDiagram
				}
				logging.UI("detail pane -> %d", m.pane)
				return m, nil
			case "i":
				if m.pane == panePanels {
					m.panelKind = ui.NextPanel(m.panelKind)
				} else {
					m.pane = panePanels
				}
				logging.UI("inspector panel -> %s", ui.PanelTitle(m.panelKind))
				return m, nil
			case "q":
				m.diagram.Close()
				return m, tea.Quit
			}
			return m, nil
		}

		m.textinput, tiCmd = m.textinput.Update(msg)
		return m, tiCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.applyLayout()
		// Re-render the diagram only once the flurry of resize events
		// settles; until then the old canvas scrolls in the new pane.
		return m, m.debouncer.Trigger("resize")

	case ui.DebouncedMsg:
		if m.debouncer.Settled(msg) && msg.Tag == "resize" {
			return m, m.syncDiagram()
		}
		return m, nil

	case spinner.TickMsg:
		if m.status == statusWaiting {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
		return m, nil

	case searchResultMsg:
		if msg.Gen != m.searchGen {
			logging.UI("discarding stale result gen=%d (current=%d)", msg.Gen, m.searchGen)
			return m, nil
		}
		if m.history != nil {
			if _, err := m.history.Save(msg.Query, msg.Result); err != nil {
				logging.Store("history save failed: %v", err)
			}
		}
		return m.applyResult(msg.Query, msg.Result)

	case restoredResultMsg:
		// Only before the first submission; a live query always wins.
		if m.searchGen != 0 || m.result != nil {
			return m, nil
		}
		return m.applyResult(msg.Query, msg.Result)

	case searchErrorMsg:
		if msg.Gen != m.searchGen {
			logging.UI("discarding stale error gen=%d (current=%d)", msg.Gen, m.searchGen)
			return m, nil
		}
		m.status = statusError
		m.err = msg.Err
		return m, nil

	case ui.DiagramRenderedMsg, ui.DiagramFailedMsg:
		return m, m.diagram.Update(msg)
	}

	return m, m.diagram.Update(msg)
}

// handleSubmit starts a new submission. The previous result stays on
// screen until the reply lands; the generation bump guarantees that if
// the user submits again first, this reply is dropped.
func (m studioModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	m.searchGen++
	m.status = statusWaiting
	m.err = nil
	m.query = input
	m.textinput.Reset()

	gen := m.searchGen
	backend := m.backend
	logging.UI("submit gen=%d len=%d", gen, len(input))

	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			result, err := backend.Submit(context.Background(), input)
			if err != nil {
				return searchErrorMsg{Gen: gen, Err: err}
			}
			return searchResultMsg{Gen: gen, Query: input, Result: result}
		},
	)
}

// applyResult installs a workflow bundle: reset the selection to the
// first flow and its first screen, then kick the diagram render.
func (m studioModel) applyResult(query string, result *workflow.Result) (tea.Model, tea.Cmd) {
	m.status = statusReady
	m.err = nil
	m.query = query
	m.result = result
	m.flowIdx = 0
	m.screenIdx = 0
	m.browsing = true
	m.textinput.Blur()
	return m, m.syncDiagram()
}

// selectFlow switches the active flow tab, wrapping around, and resets
// the screen selection to the flow's first screen.
func (m studioModel) selectFlow(idx int) (tea.Model, tea.Cmd) {
	flows := m.flows()
	if len(flows) == 0 {
		return m, nil
	}
	m.flowIdx = ((idx % len(flows)) + len(flows)) % len(flows)
	m.screenIdx = 0
	logging.UI("flow selected idx=%d slug=%s", m.flowIdx, flows[m.flowIdx].FlowSlug)
	return m, nil
}

// selectScreen moves the active screen within the current flow, clamped.
func (m studioModel) selectScreen(idx int) (tea.Model, tea.Cmd) {
	screens := m.currentScreens()
	if len(screens) == 0 {
		return m, nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(screens)-1 {
		idx = len(screens) - 1
	}
	m.screenIdx = idx
	return m, nil
}

// flows returns the candidate flows of the current result.
func (m studioModel) flows() []workflow.ScreenFlow {
	if m.result == nil {
		return nil
	}
	return m.result.ScreenFlows
}

// currentFlow returns the active flow, or nil before the first result.
func (m studioModel) currentFlow() *workflow.ScreenFlow {
	flows := m.flows()
	if len(flows) == 0 {
		return nil
	}
	return &flows[m.flowIdx]
}

// currentScreens resolves the active flow's screens. When the result has
// screens but no flows, the whole screen list is browsable directly.
func (m studioModel) currentScreens() []*workflow.Screen {
	if m.result == nil {
		return nil
	}
	if flow := m.currentFlow(); flow != nil {
		return m.result.FlowScreens(flow)
	}
	screens := make([]*workflow.Screen, 0, len(m.result.Screens))
	for i := range m.result.Screens {
		screens = append(screens, &m.result.Screens[i])
	}
	return screens
}

// currentScreen returns the active screen, or nil.
func (m studioModel) currentScreen() *workflow.Screen {
	screens := m.currentScreens()
	if len(screens) == 0 || m.screenIdx >= len(screens) {
		return nil
	}
	return screens[m.screenIdx]
}

// diagramSource is the merged diagram for the whole service.
func (m studioModel) diagramSource() string {
	if m.result == nil {
		return ""
	}
	if strings.TrimSpace(m.result.GlobalMermaid) != "" {
		return m.result.GlobalMermaid
	}
	return m.result.UIGraph.Mermaid
}

// syncDiagram re-renders the diagram for the current result and size.
func (m *studioModel) syncDiagram() tea.Cmd {
	return m.diagram.SetSource(m.diagramSource())
}

// applyLayout pushes the current window size into the components.
func (m *studioModel) applyLayout() {
	layout := ui.NewLayoutConfig(m.width, m.height)
	_, detailWidth := ui.SplitWidths(m.width)
	m.diagram.SetSize(detailWidth, layout.BodyHeight())
	m.panels = ui.NewPanels(m.styles, ui.PanelContentWidth(detailWidth))
	m.textinput.Width = m.width - 4
}

func (m studioModel) View() string {
	if !m.ready {
		return "завантаження…"
	}

	layout := ui.NewLayoutConfig(m.width, m.height)
	var sb strings.Builder

	sb.WriteString(m.viewHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewTabs())
	sb.WriteString("\n")
	sb.WriteString(m.viewBody(layout))
	sb.WriteString("\n")
	sb.WriteString(m.viewStatus())
	sb.WriteString("\n")
	sb.WriteString(m.textinput.View())
	sb.WriteString("\n")
	sb.WriteString(m.viewFooter())

	return sb.String()
}

func (m studioModel) viewHeader() string {
	title := "Yana Studio"
	if m.result != nil && m.result.Service.Name != "" {
		title = fmt.Sprintf("Yana Studio — %s", m.result.Service.Name)
	}
	return m.styles.Header.Width(m.width).Render(title)
}

// viewTabs renders one tab per candidate flow.
func (m studioModel) viewTabs() string {
	flows := m.flows()
	if len(flows) == 0 {
		return m.styles.Muted.Render(" (флоу з'являться після відповіді)")
	}
	tabs := make([]string, 0, len(flows))
	for i, f := range flows {
		name := f.Name
		if name == "" {
			name = f.FlowSlug
		}
		if i == m.flowIdx {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

// viewBody renders the screen list next to the detail pane.
func (m studioModel) viewBody(layout ui.LayoutConfig) string {
	if m.result == nil {
		empty := m.styles.Muted.Render("Опишіть послугу, яку хочете спроєктувати, і натисніть Enter.")
		return lipgloss.Place(m.width, layout.BodyHeight(), lipgloss.Center, lipgloss.Center, empty)
	}

	listWidth, detailWidth := ui.SplitWidths(m.width)
	list := m.viewScreenList(listWidth)
	detail := m.viewDetail(detailWidth)

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	return lipgloss.NewStyle().Height(layout.BodyHeight()).MaxHeight(layout.BodyHeight()).Render(body)
}

func (m studioModel) viewScreenList(width int) string {
	screens := m.currentScreens()
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Екрани"))
	sb.WriteString("\n")
	if len(screens) == 0 {
		sb.WriteString(m.styles.Muted.Render("немає екранів"))
	}
	for i, s := range screens {
		title := s.Title
		if title == "" {
			title = s.ScreenID
		}
		if i == m.screenIdx {
			sb.WriteString(m.styles.ListActive.Render("▸ " + title))
		} else {
			sb.WriteString(m.styles.ListItem.Render(title))
		}
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(width).Render(sb.String())
}

func (m studioModel) viewDetail(width int) string {
	switch m.pane {
	case paneDiagram:
		if view := m.diagram.View(); view != "" {
			return view
		}
		return m.styles.Muted.Render("діаграма відсутня")
	case panePanels:
		var flowSlug string
		if flow := m.currentFlow(); flow != nil {
			flowSlug = flow.FlowSlug
		}
		header := m.styles.Title.Render(ui.PanelTitle(m.panelKind)) + "\n"
		content := m.panels.Render(m.panelKind, m.result, m.currentScreen(), flowSlug, ui.PanelContentWidth(width))
		return m.styles.PanelBorder.Width(width - ui.PanelBorderWidth).Render(header + content)
	default:
		return ui.RenderScreenCard(m.styles, m.currentScreen(), width-ui.PanelBorderWidth)
	}
}

func (m studioModel) viewStatus() string {
	switch m.status {
	case statusWaiting:
		return m.styles.Info.Render(fmt.Sprintf("%s генерація воркфлоу…", m.spinner.View()))
	case statusError:
		return m.styles.Error.Render(fmt.Sprintf("✗ %v", m.err))
	case statusReady:
		n := 0
		if m.result != nil {
			n = len(m.result.Screens)
		}
		return m.styles.Success.Render(fmt.Sprintf("✓ готово: %d екранів", n))
	default:
		return ""
	}
}

func (m studioModel) viewFooter() string {
	help := "Enter: надіслати · Tab: флоу · ↑/↓: екрани · Esc: режим перегляду · Ctrl+C: вихід"
	if m.browsing {
		help = "d: діаграма/картка · i: панелі · Tab: флоу · ↑/↓: екрани · Esc: до промпту · q: вихід"
	}
	return m.styles.Footer.Width(m.width).Render(help)
}
