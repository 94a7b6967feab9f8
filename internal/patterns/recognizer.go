package patterns

import (
	"strings"

	"call-audit-go/internal/timeline"
	"call-audit-go/internal/types"
)

// matchConfidence is attached to every catalogue match.
const matchConfidence = 0.9

// Pattern is one named trigger(owner) → response(agent) pair with its own
// time window.
type Pattern struct {
	Name      string
	Triggers  []string
	Responses []string
	WindowSec float64
}

// DefaultCatalogue returns the production pattern set.
func DefaultCatalogue() []Pattern {
	return []Pattern{
		{
			Name:      "price_objection",
			Triggers:  []string{"too expensive", "can't afford", "costs too much", "price is too high"},
			Responses: []string{"worth the investment", "pays for itself", "price breakdown", "special discount"},
			WindowSec: 8.0,
		},
		{
			Name:      "not_interested",
			Triggers:  []string{"not interested", "don't want it"},
			Responses: []string{"hear me out", "what if i told you", "give me a chance", "before you decide"},
			WindowSec: 6.0,
		},
		{
			Name:      "callback_request",
			Triggers:  []string{"call me back", "call back later", "not a good time", "busy right now"},
			Responses: []string{"real quick", "only take a minute", "just thirty seconds", "while i have you"},
			WindowSec: 3.0,
		},
		{
			Name:      "already_have_provider",
			Triggers:  []string{"already have", "we use", "under contract"},
			Responses: []string{"how does that compare", "side by side", "what are they charging", "when does that expire"},
			WindowSec: 8.0,
		},
	}
}

// Match is one recognized trigger/response pair.
type Match struct {
	Pattern      string  `json:"pattern"`
	Confidence   float64 `json:"confidence"`
	TriggerText  string  `json:"trigger_text"`
	ResponseText string  `json:"response_text"`
	TimeDiff     float64 `json:"time_diff"`
}

type Recognizer struct {
	catalogue []Pattern
}

func NewRecognizer(catalogue []Pattern) *Recognizer {
	return &Recognizer{catalogue: catalogue}
}

// Recognize merges the two speaker streams itself and scans the timeline
// once per catalogue entry. For each owner utterance containing a trigger
// phrase, the first later agent utterance that lands inside the window and
// contains a response phrase produces one match; the scan then moves on to
// the next trigger occurrence.
func (r *Recognizer) Recognize(agent, owner []types.Utterance) []Match {
	entries := timeline.Merge(agent, owner)

	var matches []Match
	for _, p := range r.catalogue {
		for i, e := range entries {
			if e.Speaker != types.SpeakerOwner {
				continue
			}
			trigger := strings.ToLower(e.Text)
			if !containsAny(trigger, p.Triggers) {
				continue
			}
			for _, later := range entries[i+1:] {
				if later.Speaker != types.SpeakerAgent {
					continue
				}
				response := strings.ToLower(later.Text)
				if later.Start-e.Start <= p.WindowSec && containsAny(response, p.Responses) {
					matches = append(matches, Match{
						Pattern:      p.Name,
						Confidence:   matchConfidence,
						TriggerText:  trigger,
						ResponseText: response,
						TimeDiff:     later.Start - e.Start,
					})
					break
				}
			}
		}
	}
	return matches
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
