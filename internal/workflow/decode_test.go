package workflow

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleResponse = `{
	"service": {"slug": "subsidy", "name": "Субсидія", "summary": "Оформлення субсидії"},
	"ui_graph": {
		"service": {"slug": "subsidy", "name": "Субсидія"},
		"flows": [{"slug": "online", "name": "Онлайн"}],
		"ui_components": [{"key": "btn", "name": "Кнопка", "type": "button"}],
		"nodes": [{"id": "A0", "step_slug": "start", "title": "Початок"}],
		"edges": [{"from": "A0", "to": "A1"}],
		"mermaid": "flowchart TD\n  A0[\"Початок\"]"
	},
	"screen_flows": [
		{"flow_slug": "online", "name": "Онлайн", "screens": ["s1", "s2"]},
		{"flow_slug": "offline", "name": "Офлайн", "screens": ["s2"]}
	],
	"screens": [
		{"screen_id": "s1", "title": "Вхід", "screen_type": "auth"},
		{"screen_id": "s2", "title": "Форма", "screen_type": "form"}
	],
	"global_mermaid": "flowchart TD\n  A0[\"Початок\"] --> A1[\"Кінець\"]",
	"evaluation": {
		"workflows": [
			{"flow_slug": "online", "estimated_clicks": 5, "alignment_score": 0.9, "overall_score": 0.85, "pros": ["швидко"]},
			{"flow_slug": "offline", "estimated_clicks": 12, "alignment_score": 0.4, "overall_score": 0.3}
		],
		"recommended_workflow": "online",
		"reasoning": "Онлайн-канал коротший."
	},
	"retrieval": [
		{"source_type": "flows", "code": "F-1", "name": "Подібний флоу", "score": 0.91},
		{"source_type": "steps", "code": "S-1", "name": "Подібний крок", "score": 0.88}
	],
	"debug": {"elapsed_ms": 1234}
}`

func TestDecodeFullResponse(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleResponse))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if res.Service.Name != "Субсидія" {
		t.Errorf("Expected service name Субсидія, got %q", res.Service.Name)
	}
	if len(res.ScreenFlows) != 2 {
		t.Fatalf("Expected 2 screen flows, got %d", len(res.ScreenFlows))
	}
	if len(res.Screens) != 2 {
		t.Fatalf("Expected 2 screens, got %d", len(res.Screens))
	}
	if res.Evaluation == nil {
		t.Fatal("Expected evaluation section")
	}
	if res.Evaluation.RecommendedWorkflow != "online" {
		t.Errorf("Expected recommended workflow online, got %q", res.Evaluation.RecommendedWorkflow)
	}
	if len(res.Retrieval) != 2 {
		t.Errorf("Expected 2 retrieval hits, got %d", len(res.Retrieval))
	}
	if len(res.Debug) == 0 {
		t.Error("Expected debug payload to survive decoding")
	}
}

// A malformed optional section degrades to absent; the rest of the
// response still decodes.
func TestDecodeMalformedOptionalSections(t *testing.T) {
	body := `{
		"service": {"slug": "s", "name": "S"},
		"screens": [{"screen_id": "s1", "title": "Екран"}],
		"global_mermaid": "flowchart TD\n  A0",
		"evaluation": "oops, a string",
		"retrieval": {"not": "a list"}
	}`

	res, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Evaluation != nil {
		t.Error("Expected malformed evaluation to decode as nil")
	}
	if res.Retrieval != nil {
		t.Error("Expected malformed retrieval to decode as nil")
	}
}

func TestDecodeRejectsUnusableResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"screens": `},
		{"no screens no diagram", `{"service": {"slug": "s"}}`},
		{"empty flow slug", `{"screens": [{"screen_id": "s1", "title": "x"}], "screen_flows": [{"flow_slug": " ", "name": "n", "screens": []}]}`},
		{"empty screen id", `{"screens": [{"screen_id": "", "title": "x"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tc.body)); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestFlowByIDFirstMatchWins(t *testing.T) {
	res := &Result{
		ScreenFlows: []ScreenFlow{
			{FlowSlug: "dup", Name: "перший"},
			{FlowSlug: "dup", Name: "другий"},
		},
	}

	flow := res.FlowByID("dup")
	if flow == nil {
		t.Fatal("Expected a flow")
	}
	if flow.Name != "перший" {
		t.Errorf("Expected the first duplicate, got %q", flow.Name)
	}
	if res.FlowByID("missing") != nil {
		t.Error("Expected nil for an unknown slug")
	}
}

func TestFlowScreensSkipsDanglingIDs(t *testing.T) {
	res := &Result{
		ScreenFlows: []ScreenFlow{
			{FlowSlug: "f", Screens: []string{"s1", "ghost", "s2"}},
		},
		Screens: []Screen{
			{ScreenID: "s1", Title: "Один"},
			{ScreenID: "s2", Title: "Два"},
		},
	}

	screens := res.FlowScreens(res.FlowByID("f"))
	got := make([]string, len(screens))
	for i, s := range screens {
		got[i] = s.ScreenID
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, got); diff != "" {
		t.Errorf("FlowScreens mismatch (-want +got):\n%s", diff)
	}

	if res.FlowScreens(nil) != nil {
		t.Error("Expected nil screens for a nil flow")
	}
}

func TestTopHits(t *testing.T) {
	res := &Result{
		Retrieval: []RetrievalHit{
			{SourceType: "flows", Code: "F-low", Score: 0.2},
			{SourceType: "steps", Code: "S-1", Score: 0.99},
			{SourceType: "flows", Code: "F-high", Score: 0.9},
			{SourceType: "flows", Code: "F-mid", Score: 0.5},
		},
	}

	hits := res.TopHits("flows", 2)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Code != "F-high" || hits[1].Code != "F-mid" {
		t.Errorf("Expected best-first ordering, got %v", hits)
	}

	// n <= 0 falls back to the default cap and "" matches everything.
	all := res.TopHits("", 0)
	if len(all) != 4 {
		t.Errorf("Expected all 4 hits, got %d", len(all))
	}
	if all[0].Code != "S-1" {
		t.Errorf("Expected the global best first, got %q", all[0].Code)
	}
}

func TestScoreFor(t *testing.T) {
	var ev *Evaluation
	if ev.ScoreFor("x") != nil {
		t.Error("Expected nil score on a nil evaluation")
	}

	ev = &Evaluation{Workflows: []WorkflowScore{{FlowSlug: "a", OverallScore: 0.7}}}
	if got := ev.ScoreFor("a"); got == nil || got.OverallScore != 0.7 {
		t.Errorf("Expected the flow's score, got %v", got)
	}
	if ev.ScoreFor("b") != nil {
		t.Error("Expected nil for an unknown flow")
	}
}
