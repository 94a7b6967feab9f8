package patterns

import (
	"testing"

	"call-audit-go/internal/types"
)

func TestRecognize_WindowEdge(t *testing.T) {
	tests := []struct {
		name          string
		responseStart float64
		wantMatches   int
	}{
		{"at-window-inclusive", 13.0, 1},
		{"past-window", 13.01, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := []types.Utterance{{Start: 10.0, End: 11.0, Text: "can you call me back tomorrow"}}
			agent := []types.Utterance{{Start: tt.responseStart, End: tt.responseStart + 1, Text: "this will be real quick i promise"}}
			matches := NewRecognizer(DefaultCatalogue()).Recognize(agent, owner)
			if len(matches) != tt.wantMatches {
				t.Fatalf("matches: got %d, want %d", len(matches), tt.wantMatches)
			}
			if tt.wantMatches == 1 {
				m := matches[0]
				if m.Pattern != "callback_request" {
					t.Errorf("pattern: got %q, want callback_request", m.Pattern)
				}
				if m.Confidence != 0.9 {
					t.Errorf("confidence: got %v, want 0.9", m.Confidence)
				}
				if m.TimeDiff != 3.0 {
					t.Errorf("time_diff: got %v, want 3.0", m.TimeDiff)
				}
			}
		})
	}
}

func TestRecognize_FirstResponseWins(t *testing.T) {
	owner := []types.Utterance{{Start: 0.0, End: 1.0, Text: "that's too expensive for us"}}
	agent := []types.Utterance{
		{Start: 2.0, End: 3.0, Text: "it pays for itself in a month"},
		{Start: 4.0, End: 5.0, Text: "there's also a special discount"},
	}
	matches := NewRecognizer(DefaultCatalogue()).Recognize(agent, owner)
	if len(matches) != 1 {
		t.Fatalf("matches: got %d, want 1", len(matches))
	}
	if matches[0].TimeDiff != 2.0 {
		t.Errorf("expected the earlier response to win, time_diff=%v", matches[0].TimeDiff)
	}
}

func TestRecognize_MultipleTriggerOccurrences(t *testing.T) {
	// Each trigger occurrence of the same pattern may produce its own match.
	owner := []types.Utterance{
		{Start: 0.0, End: 1.0, Text: "too expensive"},
		{Start: 10.0, End: 11.0, Text: "still too expensive"},
	}
	agent := []types.Utterance{
		{Start: 2.0, End: 3.0, Text: "it pays for itself"},
		{Start: 12.0, End: 13.0, Text: "let me show the price breakdown"},
	}
	matches := NewRecognizer(DefaultCatalogue()).Recognize(agent, owner)
	if len(matches) != 2 {
		t.Fatalf("matches: got %d, want 2", len(matches))
	}
}

func TestRecognize_ResponseBeforeTriggerIgnored(t *testing.T) {
	owner := []types.Utterance{{Start: 5.0, End: 6.0, Text: "not interested"}}
	agent := []types.Utterance{{Start: 1.0, End: 2.0, Text: "hear me out"}}
	matches := NewRecognizer(DefaultCatalogue()).Recognize(agent, owner)
	if len(matches) != 0 {
		t.Errorf("agent speech before the trigger must not match: %d", len(matches))
	}
}

func TestRecognize_CustomCatalogue(t *testing.T) {
	cat := []Pattern{{
		Name:      "demo",
		Triggers:  []string{"ping"},
		Responses: []string{"pong"},
		WindowSec: 1.0,
	}}
	owner := []types.Utterance{{Start: 0.0, End: 0.5, Text: "ping"}}
	agent := []types.Utterance{{Start: 0.8, End: 1.0, Text: "pong"}}
	matches := NewRecognizer(cat).Recognize(agent, owner)
	if len(matches) != 1 || matches[0].Pattern != "demo" {
		t.Fatalf("custom catalogue match failed: %+v", matches)
	}
}

func TestRecognize_NoMatchesOnEmptyInputs(t *testing.T) {
	if got := NewRecognizer(DefaultCatalogue()).Recognize(nil, nil); len(got) != 0 {
		t.Errorf("empty inputs produced %d matches", len(got))
	}
}
