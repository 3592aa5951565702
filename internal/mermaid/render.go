package mermaid

import (
	"fmt"
	"strings"
)

// Options control the rendered canvas. The layout never auto-shrinks: the
// canvas always spans Width columns, and MinHeight pads short diagrams so
// the pane keeps a usable area.
type Options struct {
	Width      int
	MinHeight  int
	BoxPadding int // horizontal padding inside node boxes
}

// DefaultOptions mirrors the studio's fixed render configuration.
func DefaultOptions() Options {
	return Options{Width: 80, MinHeight: 12, BoxPadding: 2}
}

const maxLabelWidth = 32

// Render lays the graph out top-down as boxed nodes with connector arrows,
// one section per subgraph. Cross-section and layer-skipping transitions
// are listed in a footer instead of drawn, which keeps merged multi-flow
// diagrams readable in a fixed-width pane.
func Render(g *Graph, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.BoxPadding < 0 {
		opts.BoxPadding = 0
	}

	var out []string
	drawn := make(map[int]bool) // edge index -> rendered inline

	for _, group := range g.groups() {
		if group.title != "" {
			out = append(out, "", sectionDivider(group.title, opts.Width))
		}
		layers := layerNodes(group.nodes, g.Edges)
		for li, layer := range layers {
			out = append(out, renderLayer(layer, opts)...)
			if li < len(layers)-1 {
				out = append(out, renderConnectors(g, layer, layers[li+1], drawn, opts)...)
			}
		}
	}

	// Footer: every transition that was not drawn as a vertical connector.
	var rest []string
	for i, e := range g.Edges {
		if !drawn[i] {
			rest = append(rest, renderEdgeLine(e))
		}
	}
	if len(rest) > 0 {
		out = append(out, "", sectionDivider("переходи", opts.Width))
		out = append(out, rest...)
	}

	for i := range out {
		out[i] = padLine(out[i], opts.Width)
	}
	for len(out) < opts.MinHeight {
		out = append(out, strings.Repeat(" ", opts.Width))
	}
	return strings.Join(out, "\n")
}

type nodeGroup struct {
	title string
	nodes []Node
}

// groups splits nodes by subgraph, keeping declaration order. Top-level
// nodes come first so entry points stay at the top of the pane.
func (g *Graph) groups() []nodeGroup {
	byID := make(map[string]*nodeGroup)
	var order []*nodeGroup

	ensure := func(subID, title string) *nodeGroup {
		if grp, ok := byID[subID]; ok {
			return grp
		}
		grp := &nodeGroup{title: title}
		byID[subID] = grp
		order = append(order, grp)
		return grp
	}

	for _, n := range g.Nodes {
		if n.Subgraph == "" {
			ensure("", "").nodes = append(ensure("", "").nodes, n)
		}
	}
	for _, sub := range g.Subgraphs {
		ensure(sub.ID, sub.Title)
	}
	for _, n := range g.Nodes {
		if n.Subgraph != "" {
			grp := ensure(n.Subgraph, n.Subgraph)
			grp.nodes = append(grp.nodes, n)
		}
	}

	var groups []nodeGroup
	for _, grp := range order {
		if len(grp.nodes) > 0 {
			groups = append(groups, *grp)
		}
	}
	return groups
}

// layerNodes assigns nodes to top-down layers by longest path from the
// group's roots. Nodes trapped in cycles fall back to declaration order.
func layerNodes(nodes []Node, edges []Edge) [][]Node {
	inGroup := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inGroup[n.ID] = true
	}

	indeg := make(map[string]int, len(nodes))
	succ := make(map[string][]string)
	for _, e := range edges {
		if inGroup[e.From] && inGroup[e.To] && e.From != e.To {
			indeg[e.To]++
			succ[e.From] = append(succ[e.From], e.To)
		}
	}

	depth := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	placed := make(map[string]bool, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		placed[id] = true
		for _, next := range succ[id] {
			if depth[id]+1 > depth[next] {
				depth[next] = depth[id] + 1
			}
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	maxDepth := 0
	for _, n := range nodes {
		if !placed[n.ID] {
			// Cycle member: place below everything already layered.
			depth[n.ID] = maxDepth + 1
		}
		if depth[n.ID] > maxDepth {
			maxDepth = depth[n.ID]
		}
	}

	layers := make([][]Node, maxDepth+1)
	for _, n := range nodes {
		d := depth[n.ID]
		layers[d] = append(layers[d], n)
	}
	var compact [][]Node
	for _, l := range layers {
		if len(l) > 0 {
			compact = append(compact, l)
		}
	}
	return compact
}

// renderLayer draws the layer's node boxes side by side, centered.
func renderLayer(layer []Node, opts Options) []string {
	boxes := make([][]string, len(layer))
	height := 0
	for i, n := range layer {
		boxes[i] = renderBox(n, opts.BoxPadding)
		if len(boxes[i]) > height {
			height = len(boxes[i])
		}
	}

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		parts := make([]string, 0, len(boxes))
		for _, b := range boxes {
			if r < len(b) {
				parts = append(parts, b[r])
			} else {
				parts = append(parts, strings.Repeat(" ", runeWidth(b[0])))
			}
		}
		rows[r] = centerLine(strings.Join(parts, "  "), opts.Width)
	}
	return rows
}

// renderBox draws a single node box. Shape picks the corner style; the
// decision shape gets angle walls so branches stand out.
func renderBox(n Node, padding int) []string {
	lines := wrapLabel(n.Label, maxLabelWidth)
	width := 0
	for _, l := range lines {
		if w := runeWidth(l); w > width {
			width = w
		}
	}
	inner := width + padding*2

	tl, tr, bl, br, side := "┌", "┐", "└", "┘", "│"
	switch n.Shape {
	case ShapeRounded, ShapeCircle:
		tl, tr, bl, br = "╭", "╮", "╰", "╯"
	case ShapeDecision:
		side = "┆"
	}

	box := make([]string, 0, len(lines)+2)
	box = append(box, tl+strings.Repeat("─", inner)+tr)
	for _, l := range lines {
		pad := inner - runeWidth(l)
		left := pad / 2
		box = append(box, side+strings.Repeat(" ", left)+l+strings.Repeat(" ", pad-left)+side)
	}
	box = append(box, bl+strings.Repeat("─", inner)+br)
	return box
}

// renderConnectors draws the arrows between two adjacent layers and marks
// those edges as drawn. A single edge gets a plain arrow; fan-outs list
// each labeled branch.
func renderConnectors(g *Graph, upper, lower []Node, drawn map[int]bool, opts Options) []string {
	up := make(map[string]bool, len(upper))
	for _, n := range upper {
		up[n.ID] = true
	}
	down := make(map[string]bool, len(lower))
	for _, n := range lower {
		down[n.ID] = true
	}

	var between []Edge
	for i, e := range g.Edges {
		if up[e.From] && down[e.To] {
			between = append(between, e)
			drawn[i] = true
		}
	}
	if len(between) == 0 {
		return []string{centerLine("┆", opts.Width)}
	}
	if len(between) == 1 {
		e := between[0]
		arrow := "│"
		if e.Label != "" {
			arrow = "│ " + e.Label
		}
		return []string{
			centerLine(arrow, opts.Width),
			centerLine("▼", opts.Width),
		}
	}

	out := make([]string, 0, len(between)+1)
	for _, e := range between {
		out = append(out, centerLine(renderEdgeLine(e), opts.Width))
	}
	out = append(out, centerLine("▼", opts.Width))
	return out
}

func renderEdgeLine(e Edge) string {
	if e.Label != "" {
		return fmt.Sprintf("%s ──%s──▶ %s", e.From, e.Label, e.To)
	}
	return fmt.Sprintf("%s ──▶ %s", e.From, e.To)
}

func sectionDivider(title string, width int) string {
	head := "── " + title + " "
	if runeWidth(head) >= width {
		return head
	}
	return head + strings.Repeat("─", width-runeWidth(head))
}

func wrapLabel(label string, width int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if runeWidth(current)+1+runeWidth(w) > width {
			lines = append(lines, current)
			current = w
		} else {
			current += " " + w
		}
	}
	return append(lines, current)
}

func centerLine(s string, width int) string {
	w := runeWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", (width-w)/2) + s
}

func padLine(s string, width int) string {
	if w := runeWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// runeWidth counts runes, which is close enough for the box-drawing and
// Cyrillic text the pipeline produces (no double-width glyphs).
func runeWidth(s string) int {
	return len([]rune(s))
}
