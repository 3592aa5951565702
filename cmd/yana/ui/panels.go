package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"yana/internal/workflow"
)

// PanelKind identifies one inspector panel.
type PanelKind int

const (
	PanelWhy PanelKind = iota
	PanelComponents
	PanelEvaluation
	PanelRetrieval
	PanelDebug
	panelCount
)

// Titles for the panel cycle in display order.
var panelTitles = map[PanelKind]string{
	PanelWhy:        "Чому цей екран",
	PanelComponents: "Дизайн-система",
	PanelEvaluation: "Оцінка",
	PanelRetrieval:  "Схожі рішення",
	PanelDebug:      "Debug",
}

// NextPanel cycles to the following panel kind.
func NextPanel(k PanelKind) PanelKind {
	return (k + 1) % panelCount
}

// PanelTitle returns the display title for a panel.
func PanelTitle(k PanelKind) string {
	return panelTitles[k]
}

// Panels renders the inspector panels. Pure projections of the result:
// a panel whose section is absent renders to a short "немає даних" note
// and nothing else.
type Panels struct {
	styles   Styles
	renderer *glamour.TermRenderer
}

// NewPanels builds the panel renderer. The markdown renderer follows the
// theme; failures to construct it degrade to plain text.
func NewPanels(styles Styles, wrap int) *Panels {
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(wrap),
		)
	}
	return &Panels{styles: styles, renderer: renderer}
}

// Render draws the requested panel for the current selection.
func (p *Panels) Render(kind PanelKind, result *workflow.Result, screen *workflow.Screen, flowSlug string, width int) string {
	if result == nil {
		return p.styles.Muted.Render("немає даних")
	}
	switch kind {
	case PanelWhy:
		return p.renderWhy(screen, width)
	case PanelComponents:
		return p.renderComponents(result, width)
	case PanelEvaluation:
		return p.renderEvaluation(result, flowSlug, width)
	case PanelRetrieval:
		return p.renderRetrieval(result)
	case PanelDebug:
		return p.renderDebug(result, width)
	}
	return ""
}

// renderWhy explains the active screen: functional description plus the
// step slugs and diagram nodes it covers.
func (p *Panels) renderWhy(screen *workflow.Screen, width int) string {
	if screen == nil {
		return p.styles.Muted.Render("екран не обрано")
	}
	var sb strings.Builder
	if screen.FunctionalDescription != "" {
		sb.WriteString(p.markdown(screen.FunctionalDescription, width))
		sb.WriteString("\n")
	}
	if len(screen.StepSlugs) > 0 {
		sb.WriteString(p.styles.Bold.Render("Кроки: "))
		sb.WriteString(p.styles.Body.Render(strings.Join(screen.StepSlugs, ", ")))
		sb.WriteString("\n")
	}
	if len(screen.MermaidNodeIDs) > 0 {
		sb.WriteString(p.styles.Bold.Render("Вузли діаграми: "))
		sb.WriteString(p.styles.Muted.Render(strings.Join(screen.MermaidNodeIDs, ", ")))
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return p.styles.Muted.Render("немає даних")
	}
	return sb.String()
}

// renderComponents lists the design-system catalog from the UI graph.
func (p *Panels) renderComponents(result *workflow.Result, width int) string {
	comps := result.UIGraph.UIComponents
	if len(comps) == 0 {
		return p.styles.Muted.Render("немає даних")
	}
	var sb strings.Builder
	for _, c := range comps {
		name := c.Name
		if name == "" {
			name = c.Key
		}
		line := "· " + name
		if c.Type != "" {
			line += fmt.Sprintf(" [%s]", c.Type)
		}
		sb.WriteString(p.styles.ListItem.Render(truncate(line, width)))
		sb.WriteString("\n")
		if c.Description != "" {
			sb.WriteString(p.styles.Muted.PaddingLeft(4).Render(truncate(c.Description, width-4)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderEvaluation shows the score table, the recommendation, and the
// pros/cons of the active flow.
func (p *Panels) renderEvaluation(result *workflow.Result, flowSlug string, width int) string {
	ev := result.Evaluation
	if ev == nil {
		return p.styles.Muted.Render("немає даних")
	}

	table := NewTable("", "Флоу", "Кліки", "Відповідність", "Оцінка").AlignRight(1, 2, 3)
	for _, w := range ev.Workflows {
		name := w.FlowSlug
		if name == ev.RecommendedWorkflow {
			name = "★ " + name
		}
		table.AddRow(
			name,
			fmt.Sprintf("%d", w.EstimatedClicks),
			fmt.Sprintf("%.2f", w.AlignmentScore),
			fmt.Sprintf("%.2f", w.OverallScore),
		)
	}

	var sb strings.Builder
	sb.WriteString(table.View(p.styles))

	if score := ev.ScoreFor(flowSlug); score != nil {
		if len(score.Pros) > 0 {
			sb.WriteString(p.styles.Success.Render("Переваги") + "\n")
			for _, pro := range score.Pros {
				sb.WriteString(p.styles.ListItem.Render("+ "+truncate(pro, width-2)) + "\n")
			}
		}
		if len(score.Cons) > 0 {
			sb.WriteString(p.styles.Error.Render("Недоліки") + "\n")
			for _, con := range score.Cons {
				sb.WriteString(p.styles.ListItem.Render("− "+truncate(con, width-2)) + "\n")
			}
		}
	}
	if ev.Reasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(p.markdown(ev.Reasoning, width))
	}
	return sb.String()
}

// renderRetrieval shows the top similarity hits grouped by source type.
func (p *Panels) renderRetrieval(result *workflow.Result) string {
	if len(result.Retrieval) == 0 {
		return p.styles.Muted.Render("немає даних")
	}
	var sb strings.Builder
	for _, sourceType := range []string{"flows", "steps", "ui_components"} {
		hits := result.TopHits(sourceType, workflow.DefaultMaxHits)
		if len(hits) == 0 {
			continue
		}
		table := NewTable(sourceType, "Код", "Назва", "Схожість").AlignRight(2)
		for _, h := range hits {
			table.AddRow(h.Code, h.Name, fmt.Sprintf("%.3f", h.Score))
		}
		sb.WriteString(table.View(p.styles))
	}
	if sb.Len() == 0 {
		return p.styles.Muted.Render("немає даних")
	}
	return sb.String()
}

// renderDebug pretty-prints the raw debug payload as a fenced JSON block.
func (p *Panels) renderDebug(result *workflow.Result, width int) string {
	if len(result.Debug) == 0 {
		return p.styles.Muted.Render("немає даних")
	}
	var pretty map[string]interface{}
	text := string(result.Debug)
	if json.Unmarshal(result.Debug, &pretty) == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			text = string(out)
		}
	}
	return p.markdown("```json\n"+text+"\n```", width)
}

// markdown renders text through glamour, falling back to plain text.
func (p *Panels) markdown(text string, width int) string {
	if p.renderer != nil {
		if out, err := p.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n") + "\n"
		}
	}
	return p.styles.Body.Width(width).Render(text) + "\n"
}
