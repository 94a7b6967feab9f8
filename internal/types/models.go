package types

// Speaker identifies which side of the call produced an utterance.
type Speaker string

const (
	SpeakerAgent Speaker = "agent"
	SpeakerOwner Speaker = "owner"
)

// Verdict values produced by the upstream phrase matcher.
const (
	VerdictYes = "Yes"
	VerdictNo  = "No"
)

// Utterance is one transcribed speech span from a single speaker.
// Produced upstream by transcription/diarization; the engine only reads it.
type Utterance struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// BaseResult is the verdict from the upstream lexical phrase matcher
// that the fusion engine enhances.
type BaseResult struct {
	Result          string   `json:"result"`
	ConfidenceScore float64  `json:"confidence_score"`
	MatchedPhrases  []string `json:"matched_phrases,omitempty"`
}

// CallRecord is one row of a batch audit manifest.
type CallRecord struct {
	CallID              string  `json:"call_id"`
	AudioPath           string  `json:"audio_path"`
	AgentTranscriptPath string  `json:"agent_transcript_path"`
	OwnerTranscriptPath string  `json:"owner_transcript_path"`
	BaseResult          string  `json:"base_result"`
	BaseConfidence      float64 `json:"base_confidence"`
}

// AudioClip is a decoded full-call waveform: mono samples at a known rate.
type AudioClip struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Milliseconds returns the clip length in whole milliseconds.
func (c AudioClip) Milliseconds() int64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return int64(len(c.Samples)) * 1000 / int64(c.SampleRate)
}

// Duration returns the clip length in seconds.
func (c AudioClip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}
