package temporal

import "call-audit-go/internal/types"

// Config holds the call-position thresholds.
type Config struct {
	EarlyRatio float64
	LateRatio  float64
}

func DefaultConfig() Config {
	return Config{EarlyRatio: 0.2, LateRatio: 0.8}
}

// maxPositionText caps the transcript excerpt stored per position.
const maxPositionText = 50

// Position records where one agent utterance sits within the call.
type Position struct {
	Start float64 `json:"start"`
	Ratio float64 `json:"ratio"`
	Text  string  `json:"text"`
}

// Features is the temporal feature bag. The three flags are sticky: once
// any utterance sets one, no later utterance resets it.
type Features struct {
	EarlyRebuttal           bool       `json:"early_rebuttal"`
	MidConversationRebuttal bool       `json:"mid_conversation_rebuttal"`
	LateRebuttal            bool       `json:"late_rebuttal"`
	Positions               []Position `json:"positions,omitempty"`
}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze classifies each agent utterance's position in the call as a
// fraction of the total duration. Owner timing plays no part here.
func (a *Analyzer) Analyze(agent []types.Utterance, durationSec float64) Features {
	var f Features
	if len(agent) == 0 {
		return f
	}

	for _, u := range agent {
		ratio := 0.0
		if durationSec > 0 {
			ratio = u.Start / durationSec
		}
		switch {
		case ratio < a.cfg.EarlyRatio:
			f.EarlyRebuttal = true
		case ratio > a.cfg.LateRatio:
			f.LateRebuttal = true
		default:
			f.MidConversationRebuttal = true
		}
		f.Positions = append(f.Positions, Position{
			Start: u.Start,
			Ratio: ratio,
			Text:  truncate(u.Text, maxPositionText),
		})
	}
	return f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
