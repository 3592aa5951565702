package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"yana/internal/workflow"
)

// RenderScreenCard renders one screen definition as a read-only card:
// title, type badge, sections with their components, and the primary
// action. Pure projection with no state and no side effects.
func RenderScreenCard(s Styles, screen *workflow.Screen, width int) string {
	if screen == nil {
		return s.Muted.Render("екран не обрано")
	}

	inner := PanelContentWidth(width)
	if inner < 20 {
		inner = 20
	}

	var sb strings.Builder

	header := s.CardTitle.Render(screen.Title)
	if screen.ScreenType != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center,
			header, "  ", s.Badge.Render(screen.ScreenType))
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	if screen.Subtitle != "" {
		sb.WriteString(s.Subtitle.Render(screen.Subtitle))
		sb.WriteString("\n")
	}

	for _, section := range screen.Sections {
		sb.WriteString("\n")
		sb.WriteString(renderSection(s, section, inner))
	}

	if screen.PrimaryAction != nil && screen.PrimaryAction.Label != "" {
		sb.WriteString("\n")
		sb.WriteString(renderPrimaryAction(s, screen.PrimaryAction))
		sb.WriteString("\n")
	}

	return s.Card.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

func renderSection(s Styles, section workflow.Section, width int) string {
	var sb strings.Builder

	label := section.Title
	if label == "" {
		label = section.Type
	}
	if label != "" {
		sb.WriteString(s.Bold.Render(label))
		sb.WriteString("\n")
	}
	if section.Description != "" {
		sb.WriteString(s.Muted.Render(truncate(section.Description, width)))
		sb.WriteString("\n")
	}

	for _, comp := range section.Components {
		sb.WriteString(renderComponent(s, comp, width))
	}
	return sb.String()
}

func renderComponent(s Styles, comp workflow.ComponentInstance, width int) string {
	marker := "·"
	if comp.Role == "primary" {
		marker = "▸"
	}

	label := comp.Label
	if label == "" {
		label = comp.ComponentSlug
	}
	line := fmt.Sprintf("%s %s", marker, label)
	if comp.Placeholder != "" {
		line += fmt.Sprintf("  (%s)", comp.Placeholder)
	}
	out := s.ListItem.Render(truncate(line, width)) + "\n"

	for _, a := range comp.Actions {
		if a.Label == "" {
			continue
		}
		target := a.NavigatesToScreenID
		if target == "" {
			target = a.NavigatesToStepSlug
		}
		nav := fmt.Sprintf("  ↪ %s", a.Label)
		if target != "" {
			nav += fmt.Sprintf(" → %s", target)
		}
		out += s.Muted.PaddingLeft(4).Render(truncate(nav, width-4)) + "\n"
	}
	return out
}

func renderPrimaryAction(s Styles, a *workflow.Action) string {
	btn := lipgloss.NewStyle().
		Background(s.Theme.Primary).
		Foreground(lipgloss.Color("#ffffff")).
		Padding(0, 2).
		Bold(true).
		Render(a.Label)
	target := a.NavigatesToScreenID
	if target == "" {
		target = a.NavigatesToStepSlug
	}
	if target != "" {
		return lipgloss.JoinHorizontal(lipgloss.Center, btn, "  ", s.Muted.Render("→ "+target))
	}
	return btn
}

// truncate clips a line to the given rune width with an ellipsis.
func truncate(text string, width int) string {
	if width <= 1 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
