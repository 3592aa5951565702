package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultResizeDuration is the recommended debounce for resize events.
const DefaultResizeDuration = 250 * time.Millisecond

// DebouncedMsg is delivered when a debounced event settles. Only the
// message whose Gen matches the debouncer's current generation is live;
// earlier ones were superseded and must be ignored.
type DebouncedMsg struct {
	Gen int
	Tag string
}

// Debouncer coalesces rapid events (window resizes, mostly) inside the
// bubbletea loop. Unlike a timer-callback debouncer it never touches the
// model from another goroutine: each Trigger schedules a tick, and stale
// ticks are filtered by generation in Update.
type Debouncer struct {
	gen      int
	duration time.Duration
}

// NewDebouncer creates a debouncer with the specified settle duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultResizeDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger supersedes any pending event and schedules a settle message.
func (d *Debouncer) Trigger(tag string) tea.Cmd {
	d.gen++
	gen := d.gen
	return tea.Tick(d.duration, func(time.Time) tea.Msg {
		return DebouncedMsg{Gen: gen, Tag: tag}
	})
}

// Settled reports whether the message is the latest trigger's.
func (d *Debouncer) Settled(msg DebouncedMsg) bool {
	return msg.Gen == d.gen
}
