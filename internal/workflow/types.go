// Package workflow defines the typed model of the Yana search response:
// the service descriptor, UI graph, screen flows, screen definitions, the
// merged Mermaid diagram, and the optional evaluation / retrieval sections.
// The shapes mirror what the backend pipeline assembles; all identifiers
// (flow slugs, screen ids, node ids) are opaque strings used only for
// lookup.
package workflow

import "encoding/json"

// Service is the opaque service descriptor the pipeline proposes.
type Service struct {
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags,omitempty"`
}

// Flow is one candidate workflow as described in the UI graph.
type Flow struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Goal         string `json:"goal,omitempty"`
	PrimaryActor string `json:"primary_actor,omitempty"`
	EntryPoint   string `json:"entry_point,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// NodeComponent is a design-system component attached to a graph node.
type NodeComponent struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Node is one step-level node of the UI graph. ID matches the Mermaid
// node id used in the merged diagram.
type Node struct {
	ID          string          `json:"id"`
	StepSlug    string          `json:"step_slug"`
	Title       string          `json:"title"`
	Flows       []string        `json:"flows,omitempty"`
	Description string          `json:"description,omitempty"`
	Components  []NodeComponent `json:"components,omitempty"`
}

// Edge is a transition between two graph nodes.
type Edge struct {
	From         string `json:"from"`
	To           string `json:"to"`
	FromStepSlug string `json:"from_step_slug,omitempty"`
	ToStepSlug   string `json:"to_step_slug,omitempty"`
	Trigger      string `json:"trigger,omitempty"`
	Condition    string `json:"condition,omitempty"`
}

// UIComponent is a design-system catalog entry.
type UIComponent struct {
	Key         string `json:"key,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	UsageNotes  string `json:"usage_notes,omitempty"`
}

// UIGraph is the derived graph the backend builds deterministically from
// the normalized bundle: one node per step, edges from transitions, and a
// single merged Mermaid flowchart.
type UIGraph struct {
	Service      Service       `json:"service"`
	Flows        []Flow        `json:"flows,omitempty"`
	UIComponents []UIComponent `json:"ui_components,omitempty"`
	Nodes        []Node        `json:"nodes,omitempty"`
	Edges        []Edge        `json:"edges,omitempty"`
	Mermaid      string        `json:"mermaid,omitempty"`
}

// ScreenFlow is an ordered happy path through screens. Screens are
// referenced by id; the flow does not own them.
type ScreenFlow struct {
	FlowSlug    string   `json:"flow_slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Screens     []string `json:"screens"`
}

// Action is a navigation action bound to a component or a screen's
// primary button.
type Action struct {
	Label               string `json:"label"`
	NavigatesToScreenID string `json:"navigates_to_screen_id,omitempty"`
	NavigatesToStepSlug string `json:"navigates_to_step_slug,omitempty"`
}

// ComponentInstance is one component placed on a screen section. Purely
// descriptive display metadata.
type ComponentInstance struct {
	ComponentSlug string   `json:"component_slug"`
	Label         string   `json:"label,omitempty"`
	Placeholder   string   `json:"placeholder,omitempty"`
	Role          string   `json:"role,omitempty"`
	Repeats       string   `json:"repeats,omitempty"`
	Binding       string   `json:"binding,omitempty"`
	Actions       []Action `json:"actions,omitempty"`
}

// Section groups components on a screen (search, filters, list, form...).
type Section struct {
	Type        string              `json:"type,omitempty"`
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Components  []ComponentInstance `json:"components,omitempty"`
}

// Screen is one final screen definition produced by the screen-design agent.
type Screen struct {
	ScreenID              string    `json:"screen_id"`
	StepSlugs             []string  `json:"step_slugs,omitempty"`
	MermaidNodeIDs        []string  `json:"mermaid_node_ids,omitempty"`
	ScreenType            string    `json:"screen_type,omitempty"`
	Title                 string    `json:"title"`
	Subtitle              string    `json:"subtitle,omitempty"`
	FunctionalDescription string    `json:"functional_description,omitempty"`
	Sections              []Section `json:"sections,omitempty"`
	PrimaryAction         *Action   `json:"primary_action,omitempty"`
}

// WorkflowScore is the evaluation verdict for a single candidate flow.
type WorkflowScore struct {
	FlowSlug          string   `json:"flow_slug"`
	EstimatedClicks   int      `json:"estimated_clicks"`
	UnusualComponents []string `json:"unusual_components,omitempty"`
	AlignmentScore    float64  `json:"alignment_score"`
	OverallScore      float64  `json:"overall_score"`
	Pros              []string `json:"pros,omitempty"`
	Cons              []string `json:"cons,omitempty"`
}

// Evaluation is the optional scoring section with a recommended flow.
type Evaluation struct {
	Workflows           []WorkflowScore `json:"workflows"`
	RecommendedWorkflow string          `json:"recommended_workflow,omitempty"`
	Reasoning           string          `json:"reasoning,omitempty"`
}

// RetrievalHit is a vector-similarity match from the backend knowledge
// base, used only for display ranking.
type RetrievalHit struct {
	SourceType string  `json:"source_type"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

// Result is the full response of POST /api/v1/search. Immutable once
// decoded; replaced wholesale on each new submission.
type Result struct {
	Service       Service      `json:"service"`
	UIGraph       UIGraph      `json:"ui_graph"`
	ScreenFlows   []ScreenFlow `json:"screen_flows"`
	Screens       []Screen     `json:"screens"`
	GlobalMermaid string       `json:"global_mermaid"`

	// Optional sections. Absent or malformed means nil, never an error.
	Evaluation *Evaluation     `json:"evaluation,omitempty"`
	Retrieval  []RetrievalHit  `json:"retrieval,omitempty"`
	Debug      json.RawMessage `json:"debug,omitempty"`
}
