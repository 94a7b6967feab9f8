package dialogue

import (
	"strings"

	"call-audit-go/internal/timeline"
	"call-audit-go/internal/types"
)

// Config holds the lexicons and timing threshold for sequence detection.
type Config struct {
	ObjectionPhrases   []string
	RebuttalIndicators []string
	RebuttalWindowSec  float64
}

// DefaultConfig returns the production lexicons.
func DefaultConfig() Config {
	return Config{
		ObjectionPhrases: []string{
			"not interested",
			"no thanks",
			"no thank you",
			"don't need",
			"don't want",
			"too expensive",
			"can't afford",
			"already have",
			"stop calling",
			"not right now",
			"maybe later",
		},
		RebuttalIndicators: []string{
			"but",
			"however",
			"understand",
			"actually",
			"what if",
			"let me",
			"consider",
			"imagine",
			"offer",
			"guarantee",
		},
		RebuttalWindowSec: 10.0,
	}
}

// Objection is the most recent unresolved owner objection in the scan.
// Position is the utterance's fractional index in the timeline.
type Objection struct {
	Start    float64 `json:"start"`
	Text     string  `json:"text"`
	Position float64 `json:"position"`
}

// Rebuttal is the agent utterance that resolved an objection.
type Rebuttal struct {
	Start              float64 `json:"start"`
	Text               string  `json:"text"`
	TimeSinceObjection float64 `json:"time_since_objection"`
}

// Sequence is a resolved objection/rebuttal pair.
type Sequence struct {
	Objection Objection `json:"objection"`
	Rebuttal  Rebuttal  `json:"rebuttal"`
}

// Features is the dialogue feature bag for one call.
type Features struct {
	HasDialogue          bool       `json:"has_dialogue"`
	TurnCount            int        `json:"turn_count"`
	AgentTurns           int        `json:"agent_turns"`
	OwnerTurns           int        `json:"owner_turns"`
	SequenceCount        int        `json:"sequence_count"`
	Sequences            []Sequence `json:"sequences,omitempty"`
	AvgTurnLength        float64    `json:"avg_turn_length"`
	ConversationDuration float64    `json:"conversation_duration"`
}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze walks the merged timeline once: counts speaker turns and pairs
// owner objections with agent rebuttals inside the configured window.
// Only the latest unresolved objection is tracked; a new one overwrites it.
// An unresolved objection is never expired explicitly — it only goes stale
// when a later rebuttal candidate fails the window check.
func (a *Analyzer) Analyze(entries []timeline.Entry) Features {
	if len(entries) == 0 {
		return Features{HasDialogue: false}
	}

	f := Features{HasDialogue: true}

	var prevSpeaker types.Speaker
	var live *Objection

	for i, e := range entries {
		if e.Speaker != prevSpeaker {
			f.TurnCount++
			if e.Speaker == types.SpeakerAgent {
				f.AgentTurns++
			} else {
				f.OwnerTurns++
			}
			prevSpeaker = e.Speaker
		}

		lower := strings.ToLower(e.Text)
		switch e.Speaker {
		case types.SpeakerOwner:
			if containsAny(lower, a.cfg.ObjectionPhrases) {
				live = &Objection{
					Start:    e.Start,
					Text:     lower,
					Position: float64(i) / float64(len(entries)),
				}
			}
		case types.SpeakerAgent:
			if live == nil {
				continue
			}
			dt := e.Start - live.Start
			if dt < a.cfg.RebuttalWindowSec && containsAny(lower, a.cfg.RebuttalIndicators) {
				f.Sequences = append(f.Sequences, Sequence{
					Objection: *live,
					Rebuttal: Rebuttal{
						Start:              e.Start,
						Text:               lower,
						TimeSinceObjection: dt,
					},
				})
				live = nil
			}
		}
	}

	f.SequenceCount = len(f.Sequences)
	f.ConversationDuration = entries[len(entries)-1].End - entries[0].Start
	if f.TurnCount > 0 {
		f.AvgTurnLength = f.ConversationDuration / float64(f.TurnCount)
	}
	return f
}

// containsAny reports whether text contains any of the phrases as a substring.
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
