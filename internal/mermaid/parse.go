// Package mermaid parses and renders the Mermaid flowchart subset the
// Yana pipeline emits: a "flowchart TD" header, per-flow subgraph blocks,
// node declarations like A0["Назва екрану"], and edges with optional
// labels (A0 -->|Далі| A1). This is not a general Mermaid implementation;
// the dialect is fixed by the backend's diagram builder.
package mermaid

import (
	"fmt"
	"regexp"
	"strings"
)

// Shape is the declared node shape. Shapes only affect box drawing.
type Shape int

const (
	ShapeRect     Shape = iota // id["label"]
	ShapeRounded               // id("label")
	ShapeCircle                // id(("label"))
	ShapeDecision              // id{"label"}
)

// Node is a declared or referenced diagram node.
type Node struct {
	ID       string
	Label    string
	Shape    Shape
	Subgraph string // subgraph id, "" when top-level
}

// Edge is a directed transition, optionally labeled.
type Edge struct {
	From  string
	To    string
	Label string
}

// Subgraph is a named group of nodes (one per flow in merged diagrams).
type Subgraph struct {
	ID    string
	Title string
}

// Graph is the parsed diagram.
type Graph struct {
	Direction string // "TD" or "LR"; the pipeline always emits TD
	Nodes     []Node
	Edges     []Edge
	Subgraphs []Subgraph

	index map[string]int // node id -> position in Nodes
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	if i, ok := g.index[id]; ok {
		return &g.Nodes[i]
	}
	return nil
}

var (
	headerRe   = regexp.MustCompile(`^flowchart\s+(TD|TB|LR)\s*$`)
	subgraphRe = regexp.MustCompile(`^subgraph\s+(\S+?)(?:\s*\[(.+)\])?\s*$`)
	// node term: id plus optional bracketed label in one of the four shapes
	nodeTermRe = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*(?:\(\((.+)\)\)|\[(.+)\]|\((.+)\)|\{(.+)\})?$`)
	// The label match is greedy so it anchors on the LAST pipe: the
	// pipeline joins trigger and condition with " | " inside one label.
	edgeRe = regexp.MustCompile(`^(.+?)\s*-->\s*(?:\|(.*)\|\s*)?(.+)$`)
)

// Parse reads a flowchart description. Errors cover what the view must
// survive: empty input never reaches Parse (the view short-circuits it),
// but malformed headers, unbalanced subgraphs, and unreadable lines all
// fail here and surface as the inline render notice.
func Parse(src string) (*Graph, error) {
	lines := strings.Split(src, "\n")
	g := &Graph{index: make(map[string]int)}
	currentSub := ""
	sawHeader := false

	for ln, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		if !sawHeader {
			m := headerRe.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: diagram must start with a flowchart header, got %q", ln+1, line)
			}
			g.Direction = m[1]
			if g.Direction == "TB" {
				g.Direction = "TD"
			}
			sawHeader = true
			continue
		}

		if m := subgraphRe.FindStringSubmatch(line); m != nil && strings.HasPrefix(line, "subgraph") {
			if currentSub != "" {
				return nil, fmt.Errorf("line %d: nested subgraphs are not supported", ln+1)
			}
			id := m[1]
			title := m[2]
			if title == "" {
				title = id
			}
			g.Subgraphs = append(g.Subgraphs, Subgraph{ID: id, Title: unquote(title)})
			currentSub = id
			continue
		}

		if line == "end" {
			if currentSub == "" {
				return nil, fmt.Errorf("line %d: 'end' without an open subgraph", ln+1)
			}
			currentSub = ""
			continue
		}

		if strings.Contains(line, "-->") {
			if err := g.parseEdge(line, currentSub); err != nil {
				return nil, fmt.Errorf("line %d: %w", ln+1, err)
			}
			continue
		}

		if node, ok := parseNodeTerm(line); ok {
			g.addNode(node, currentSub)
			continue
		}

		return nil, fmt.Errorf("line %d: cannot parse %q", ln+1, line)
	}

	if !sawHeader {
		return nil, fmt.Errorf("diagram has no flowchart header")
	}
	if currentSub != "" {
		return nil, fmt.Errorf("subgraph %q is never closed", currentSub)
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("diagram declares no nodes")
	}
	return g, nil
}

func (g *Graph) parseEdge(line, sub string) error {
	m := edgeRe.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("malformed edge %q", line)
	}
	from, ok := parseNodeTerm(strings.TrimSpace(m[1]))
	if !ok {
		return fmt.Errorf("malformed edge source %q", m[1])
	}
	to, ok := parseNodeTerm(strings.TrimSpace(m[3]))
	if !ok {
		return fmt.Errorf("malformed edge target %q", m[3])
	}
	g.addNode(from, sub)
	g.addNode(to, sub)
	g.Edges = append(g.Edges, Edge{From: from.ID, To: to.ID, Label: strings.TrimSpace(m[2])})
	return nil
}

// addNode registers a node, upgrading a bare reference with a label when a
// later declaration provides one. First subgraph wins.
func (g *Graph) addNode(n Node, sub string) {
	if i, ok := g.index[n.ID]; ok {
		if g.Nodes[i].Label == g.Nodes[i].ID && n.Label != n.ID {
			g.Nodes[i].Label = n.Label
			g.Nodes[i].Shape = n.Shape
		}
		return
	}
	n.Subgraph = sub
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

func parseNodeTerm(term string) (Node, bool) {
	m := nodeTermRe.FindStringSubmatch(term)
	if m == nil {
		return Node{}, false
	}
	n := Node{ID: m[1], Label: m[1], Shape: ShapeRect}
	switch {
	case m[2] != "":
		n.Label, n.Shape = unquote(m[2]), ShapeCircle
	case m[3] != "":
		n.Label, n.Shape = unquote(m[3]), ShapeRect
	case m[4] != "":
		n.Label, n.Shape = unquote(m[4]), ShapeRounded
	case m[5] != "":
		n.Label, n.Shape = unquote(m[5]), ShapeDecision
	}
	return n, true
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}
