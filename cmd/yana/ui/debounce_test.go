package ui

import (
	"testing"
	"time"
)

func TestDebouncerSupersedesEarlierTriggers(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	if cmd := d.Trigger("resize"); cmd == nil {
		t.Fatal("Expected a tick command")
	}
	first := DebouncedMsg{Gen: d.gen, Tag: "resize"}

	d.Trigger("resize")
	second := DebouncedMsg{Gen: d.gen, Tag: "resize"}

	if d.Settled(first) {
		t.Error("A superseded trigger must not settle")
	}
	if !d.Settled(second) {
		t.Error("The latest trigger must settle")
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.duration != DefaultResizeDuration {
		t.Errorf("Expected the default duration, got %v", d.duration)
	}
}

func TestDebouncerTickDeliversLatestGen(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	cmd := d.Trigger("resize")

	msg, ok := cmd().(DebouncedMsg)
	if !ok {
		t.Fatalf("Expected a DebouncedMsg, got %T", msg)
	}
	if !d.Settled(msg) {
		t.Error("Expected the delivered message to settle")
	}
	if msg.Tag != "resize" {
		t.Errorf("Unexpected tag %q", msg.Tag)
	}
}
