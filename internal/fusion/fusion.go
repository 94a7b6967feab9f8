package fusion

import (
	"errors"
	"math"

	"call-audit-go/internal/dialogue"
	"call-audit-go/internal/logger"
	"call-audit-go/internal/patterns"
	"call-audit-go/internal/prosody"
	"call-audit-go/internal/temporal"
	"call-audit-go/internal/timeline"
	"call-audit-go/internal/types"
)

// Boost increments per signal and the overall cap.
const (
	boostSequence = 0.15
	boostMidCall  = 0.10
	boostEmphasis = 0.08
	boostPauses   = 0.05
	boostPatterns = 0.12
	boostTurns    = 0.05
	boostCap      = 0.30

	minTurnsForBoost = 4
	upgradeThreshold = 0.65
)

// Boost reason tags attached to the enhanced result.
const (
	ReasonSequence = "objection_rebuttal_sequence"
	ReasonMidCall  = "mid_conversation_rebuttal"
	ReasonEmphasis = "vocal_emphasis"
	ReasonPauses   = "strategic_pauses"
	ReasonPatterns = "known_pattern_match"
	ReasonTurns    = "active_turn_taking"
)

// EnhancedResult is the base detection result plus the fused multi-signal
// evidence. The caller's base result is never mutated.
type EnhancedResult struct {
	Result                string            `json:"result"`
	ConfidenceScore       float64           `json:"confidence_score"`
	MatchedPhrases        []string          `json:"matched_phrases,omitempty"`
	ConfidenceBoost       float64           `json:"confidence_boost"`
	BoostReasons          []string          `json:"boost_reasons,omitempty"`
	Dialogue              dialogue.Features `json:"dialogue_features"`
	Temporal              temporal.Features `json:"temporal_features"`
	Prosody               prosody.Features  `json:"prosody_features"`
	Patterns              []patterns.Match  `json:"pattern_matches,omitempty"`
	UpgradedByMultiSignal bool              `json:"upgraded_by_multi_signal,omitempty"`
}

// Engine runs the four analyzers and fuses their outputs into one bounded
// confidence adjustment. Safe for concurrent use: all configuration is
// fixed at construction and analysis holds no cross-call state.
type Engine struct {
	dialogue *dialogue.Analyzer
	temporal *temporal.Analyzer
	prosody  *prosody.Analyzer
	patterns *patterns.Recognizer
	log      *logger.Logger
}

func NewEngine() *Engine {
	return &Engine{
		dialogue: dialogue.NewAnalyzer(dialogue.DefaultConfig()),
		temporal: temporal.NewAnalyzer(temporal.DefaultConfig()),
		prosody:  prosody.NewAnalyzer(prosody.DefaultConfig()),
		patterns: patterns.NewRecognizer(patterns.DefaultCatalogue()),
		log:      logger.New(),
	}
}

// Enhance applies the multi-signal pipeline to an externally produced base
// verdict. A nil clip is an upstream contract violation and returns an
// error; a prosody failure is logged and degrades to zero features.
func (e *Engine) Enhance(base types.BaseResult, clip *types.AudioClip, agent, owner []types.Utterance) (EnhancedResult, error) {
	if clip == nil {
		return EnhancedResult{}, errors.New("enhance: nil audio clip")
	}

	merged := timeline.Merge(agent, owner)
	dialogueFeats := e.dialogue.Analyze(merged)

	durationSec := float64(clip.Milliseconds()) / 1000.0
	temporalFeats := e.temporal.Analyze(agent, durationSec)

	prosodyFeats, err := e.prosody.Analyze(*clip, agent)
	if err != nil {
		e.log.WithError(err).Warn("prosody analysis failed, continuing without prosody signals")
		prosodyFeats = prosody.Features{}
	}

	patternMatches := e.patterns.Recognize(agent, owner)

	boost := 0.0
	var reasons []string
	addBoost := func(inc float64, reason string) {
		boost += inc
		reasons = append(reasons, reason)
	}

	if dialogueFeats.SequenceCount >= 1 {
		addBoost(boostSequence, ReasonSequence)
	}
	if temporalFeats.MidConversationRebuttal {
		addBoost(boostMidCall, ReasonMidCall)
	}
	if prosodyFeats.EmphasisDetected {
		addBoost(boostEmphasis, ReasonEmphasis)
	}
	if len(prosodyFeats.Pauses) >= 1 {
		addBoost(boostPauses, ReasonPauses)
	}
	if len(patternMatches) >= 1 {
		addBoost(boostPatterns, ReasonPatterns)
	}
	if dialogueFeats.TurnCount >= minTurnsForBoost {
		addBoost(boostTurns, ReasonTurns)
	}
	boost = math.Min(boost, boostCap)

	enhanced := math.Min(1.0, base.ConfidenceScore+boost)

	out := EnhancedResult{
		Result:          base.Result,
		ConfidenceScore: enhanced,
		MatchedPhrases:  base.MatchedPhrases,
		ConfidenceBoost: boost,
		BoostReasons:    reasons,
		Dialogue:        dialogueFeats,
		Temporal:        temporalFeats,
		Prosody:         prosodyFeats,
		Patterns:        patternMatches,
	}

	if base.Result == types.VerdictNo && enhanced >= upgradeThreshold {
		out.Result = types.VerdictYes
		out.UpgradedByMultiSignal = true
	}
	return out, nil
}
