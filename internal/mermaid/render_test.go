package mermaid

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Graph {
	t.Helper()
	g, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return g
}

// Every rendered line spans the full canvas width and short diagrams are
// padded up to the minimum height.
func TestRenderCanvasDimensions(t *testing.T) {
	g := mustParse(t, "flowchart TD\n  A0[\"Початок\"] --> A1[\"Кінець\"]\n")
	opts := Options{Width: 60, MinHeight: 15, BoxPadding: 2}

	lines := strings.Split(Render(g, opts), "\n")
	if len(lines) < opts.MinHeight {
		t.Errorf("Expected at least %d lines, got %d", opts.MinHeight, len(lines))
	}
	for i, l := range lines {
		if w := len([]rune(l)); w != opts.Width {
			t.Errorf("Line %d has width %d, want %d: %q", i, w, opts.Width, l)
		}
	}
}

func TestRenderContainsLabelsAndSections(t *testing.T) {
	out := Render(mustParse(t, mergedDiagram), DefaultOptions())

	for _, want := range []string{
		"Онлайн-канал",
		"Офлайн-канал",
		"Вхід через Дія",
		"Чи є пільга?",
		"Візит до ЦНАП",
		"Готово",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered output is missing %q", want)
		}
	}
}

// A single edge between adjacent layers renders as a vertical connector
// carrying its label.
func TestRenderSingleConnector(t *testing.T) {
	g := mustParse(t, "flowchart TD\n  A0[\"Форма\"] -->|Далі| A1[\"Підсумок\"]\n")
	out := Render(g, Options{Width: 50, MinHeight: 1})

	if !strings.Contains(out, "│ Далі") {
		t.Error("Expected a labeled vertical connector")
	}
	if !strings.Contains(out, "▼") {
		t.Error("Expected an arrow head")
	}
	if strings.Contains(out, "переходи") {
		t.Error("Expected no footer when every edge is drawn inline")
	}
}

// Transitions that cross sections cannot be drawn as vertical connectors
// and are listed in the footer instead.
func TestRenderCrossSectionEdgesInFooter(t *testing.T) {
	src := `flowchart TD
  subgraph a[Перший]
    A0["Старт"]
  end
  subgraph b[Другий]
    B0["Фініш"]
  end
  A0 -->|перехід| B0
`
	out := Render(mustParse(t, src), DefaultOptions())

	if !strings.Contains(out, "переходи") {
		t.Fatal("Expected the undrawn-transitions footer")
	}
	if !strings.Contains(out, "A0 ──перехід──▶ B0") {
		t.Error("Expected the cross-section edge in the footer")
	}
}

// Cycles must not hang the layering; cycle members land below the layered
// part and their edges still show up somewhere.
func TestRenderSurvivesCycles(t *testing.T) {
	src := "flowchart TD\n  A0[\"Один\"] --> A1[\"Два\"]\n  A1 --> A0\n"
	out := Render(mustParse(t, src), Options{Width: 60, MinHeight: 1})

	if !strings.Contains(out, "Один") || !strings.Contains(out, "Два") {
		t.Error("Expected both cycle members rendered")
	}
}

func TestRenderDecisionFanOut(t *testing.T) {
	src := `flowchart TD
  D0{"Вибір"} -->|так| A0["Гілка А"]
  D0 -->|ні| A1["Гілка Б"]
`
	out := Render(mustParse(t, src), Options{Width: 70, MinHeight: 1})

	if !strings.Contains(out, "D0 ──так──▶ A0") || !strings.Contains(out, "D0 ──ні──▶ A1") {
		t.Error("Expected both branches listed between the layers")
	}
	// Decision boxes use the dashed wall style.
	if !strings.Contains(out, "┆") {
		t.Error("Expected decision box walls")
	}
}

func TestWrapLabel(t *testing.T) {
	lines := wrapLabel("перше друге третє четверте", 12)
	for _, l := range lines {
		if len([]rune(l)) > 12 {
			t.Errorf("Wrapped line %q exceeds width", l)
		}
	}
	if got := strings.Join(lines, " "); got != "перше друге третє четверте" {
		t.Errorf("Wrapping lost words: %q", got)
	}
}
