package prosody

import (
	"fmt"
	"math"
	"strings"

	"call-audit-go/internal/types"
)

// Config holds the waveform-derived feature thresholds.
type Config struct {
	PauseMinSec       float64
	EmphasisPeakRatio float64
	FastPaceWPS       float64
	DeliberateWPS     float64
}

func DefaultConfig() Config {
	return Config{
		PauseMinSec:       0.5,
		EmphasisPeakRatio: 1.5,
		FastPaceWPS:       3.0,
		DeliberateWPS:     1.5,
	}
}

// maxPauseText caps the transcript excerpt stored per pause.
const maxPauseText = 30

// Pause is a gap between consecutive agent utterances that exceeded the
// threshold, with the opening of what the agent said next.
type Pause struct {
	Duration      float64 `json:"duration"`
	FollowingText string  `json:"following_text"`
}

// Features is the prosody feature bag for one call.
type Features struct {
	Pauses           []Pause `json:"pauses,omitempty"`
	EmphasisDetected bool    `json:"emphasis_detected"`
	WordsPerSecond   float64 `json:"words_per_second"`
	IsFastPace       bool    `json:"is_fast_pace"`
	IsDeliberate     bool    `json:"is_deliberate"`
}

type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze derives pause, emphasis, and pace features from the decoded
// waveform and the agent utterance timings. A malformed clip yields an
// error and zero features; callers decide whether to degrade or fail.
func (a *Analyzer) Analyze(clip types.AudioClip, agent []types.Utterance) (f Features, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = Features{}
			err = fmt.Errorf("prosody analysis: %v", r)
		}
	}()

	if len(agent) == 0 {
		return Features{}, nil
	}
	if clip.SampleRate <= 0 {
		return Features{}, fmt.Errorf("prosody analysis: invalid sample rate %d", clip.SampleRate)
	}

	// Pauses between consecutive agent utterances.
	for i := 1; i < len(agent); i++ {
		pause := agent[i].Start - agent[i-1].End
		if pause > a.cfg.PauseMinSec {
			f.Pauses = append(f.Pauses, Pause{
				Duration:      pause,
				FollowingText: truncate(agent[i].Text, maxPauseText),
			})
		}
	}

	// Emphasis: first utterance whose peak amplitude stands out against its
	// own mean. First hit wins, remaining utterances are not inspected.
	for _, u := range agent {
		lo := int(u.Start * float64(clip.SampleRate))
		hi := int(u.End * float64(clip.SampleRate))
		if lo < 0 || hi > len(clip.Samples) || lo >= hi {
			continue
		}
		peak, mean := absPeakMean(clip.Samples[lo:hi])
		if mean > 0 && peak/mean > a.cfg.EmphasisPeakRatio {
			f.EmphasisDetected = true
			break
		}
	}

	// Speaking pace over the whole agent span.
	totalWords := 0
	for _, u := range agent {
		totalWords += len(strings.Fields(u.Text))
	}
	totalDuration := agent[len(agent)-1].End - agent[0].Start
	if totalDuration > 0 {
		f.WordsPerSecond = float64(totalWords) / totalDuration
		f.IsFastPace = f.WordsPerSecond > a.cfg.FastPaceWPS
		f.IsDeliberate = f.WordsPerSecond < a.cfg.DeliberateWPS
	}

	return f, nil
}

// absPeakMean returns the max and mean of the absolute sample values.
// The window is known non-empty.
func absPeakMean(window []float64) (peak, mean float64) {
	var sum float64
	for _, s := range window {
		v := math.Abs(s)
		if v > peak {
			peak = v
		}
		sum += v
	}
	return peak, sum / float64(len(window))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
