package workflow

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultMaxHits is how many retrieval hits the panels display per source.
const DefaultMaxHits = 8

// resultEnvelope defers the optional sections so a malformed evaluation or
// retrieval block degrades to "absent" instead of failing the whole decode.
type resultEnvelope struct {
	Service       Service         `json:"service"`
	UIGraph       UIGraph         `json:"ui_graph"`
	ScreenFlows   []ScreenFlow    `json:"screen_flows"`
	Screens       []Screen        `json:"screens"`
	GlobalMermaid string          `json:"global_mermaid"`
	Evaluation    json.RawMessage `json:"evaluation"`
	Retrieval     json.RawMessage `json:"retrieval"`
	Debug         json.RawMessage `json:"debug"`
}

// Decode parses and validates a search response. The mandatory shape is
// checked here at the boundary so the view never chases missing fields;
// optional sections that fail to parse are dropped silently.
func Decode(r io.Reader) (*Result, error) {
	var env resultEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("malformed workflow response: %w", err)
	}

	res := &Result{
		Service:       env.Service,
		UIGraph:       env.UIGraph,
		ScreenFlows:   env.ScreenFlows,
		Screens:       env.Screens,
		GlobalMermaid: env.GlobalMermaid,
		Debug:         env.Debug,
	}

	if err := res.validate(); err != nil {
		return nil, err
	}

	if len(env.Evaluation) > 0 && string(env.Evaluation) != "null" {
		var ev Evaluation
		if err := json.Unmarshal(env.Evaluation, &ev); err == nil && len(ev.Workflows) > 0 {
			res.Evaluation = &ev
		}
	}
	if len(env.Retrieval) > 0 && string(env.Retrieval) != "null" {
		var hits []RetrievalHit
		if err := json.Unmarshal(env.Retrieval, &hits); err == nil {
			res.Retrieval = hits
		}
	}

	return res, nil
}

// validate rejects responses the studio cannot render at all. Screen ids
// referenced by flows are NOT checked against the screen list: ids are
// opaque and dangling references are skipped at lookup time.
func (r *Result) validate() error {
	if len(r.Screens) == 0 && strings.TrimSpace(r.GlobalMermaid) == "" {
		return fmt.Errorf("workflow response has neither screens nor a diagram")
	}
	for i, sf := range r.ScreenFlows {
		if strings.TrimSpace(sf.FlowSlug) == "" {
			return fmt.Errorf("screen_flows[%d] has an empty flow_slug", i)
		}
	}
	for i, s := range r.Screens {
		if strings.TrimSpace(s.ScreenID) == "" {
			return fmt.Errorf("screens[%d] has an empty screen_id", i)
		}
	}
	return nil
}

// FlowByID returns the first screen flow with the given slug. First match
// wins on duplicate slugs; the backend's uniqueness guarantee is
// unconfirmed, so the client never assumes more.
func (r *Result) FlowByID(slug string) *ScreenFlow {
	for i := range r.ScreenFlows {
		if r.ScreenFlows[i].FlowSlug == slug {
			return &r.ScreenFlows[i]
		}
	}
	return nil
}

// ScreenByID returns the first screen with the given id, or nil.
func (r *Result) ScreenByID(id string) *Screen {
	for i := range r.Screens {
		if r.Screens[i].ScreenID == id {
			return &r.Screens[i]
		}
	}
	return nil
}

// FlowScreens resolves a flow's ordered screen ids to screen definitions,
// skipping ids that resolve to nothing.
func (r *Result) FlowScreens(sf *ScreenFlow) []*Screen {
	if sf == nil {
		return nil
	}
	screens := make([]*Screen, 0, len(sf.Screens))
	for _, id := range sf.Screens {
		if s := r.ScreenByID(id); s != nil {
			screens = append(screens, s)
		}
	}
	return screens
}

// TopHits returns up to n retrieval hits of the given source type, best
// score first. An empty sourceType matches everything.
func (r *Result) TopHits(sourceType string, n int) []RetrievalHit {
	if n <= 0 {
		n = DefaultMaxHits
	}
	hits := make([]RetrievalHit, 0, len(r.Retrieval))
	for _, h := range r.Retrieval {
		if sourceType == "" || h.SourceType == sourceType {
			hits = append(hits, h)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits
}

// ScoreFor returns the evaluation entry for a flow slug, or nil.
func (e *Evaluation) ScoreFor(slug string) *WorkflowScore {
	if e == nil {
		return nil
	}
	for i := range e.Workflows {
		if e.Workflows[i].FlowSlug == slug {
			return &e.Workflows[i]
		}
	}
	return nil
}
