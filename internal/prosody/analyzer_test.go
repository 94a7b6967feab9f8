package prosody

import (
	"strings"
	"testing"

	"call-audit-go/internal/types"
)

// flatClip returns a clip of constant amplitude (no emphasis possible).
func flatClip(rate, seconds int, amp float64) types.AudioClip {
	samples := make([]float64, rate*seconds)
	for i := range samples {
		samples[i] = amp
	}
	return types.AudioClip{Samples: samples, SampleRate: rate}
}

// spikeAt overwrites one sample with a large excursion.
func spikeAt(clip types.AudioClip, sec float64, amp float64) types.AudioClip {
	clip.Samples[int(sec*float64(clip.SampleRate))] = amp
	return clip
}

func TestAnalyze_Pauses(t *testing.T) {
	clip := flatClip(100, 30, 0.2)
	agent := []types.Utterance{
		{Start: 1.0, End: 2.0, Text: "first part"},
		{Start: 2.3, End: 3.0, Text: "quick continuation"},
		{Start: 5.0, End: 6.0, Text: "now let me make this point about the offer"},
	}
	f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Pauses) != 1 {
		t.Fatalf("pauses: got %d, want 1", len(f.Pauses))
	}
	if f.Pauses[0].Duration != 2.0 {
		t.Errorf("pause duration: got %.1f, want 2.0", f.Pauses[0].Duration)
	}
	if got := f.Pauses[0].FollowingText; len(got) != 30 || !strings.HasPrefix("now let me make this point about the offer", got) {
		t.Errorf("following_text: got %q (len %d), want first 30 chars", got, len(got))
	}
}

func TestAnalyze_Emphasis(t *testing.T) {
	clip := spikeAt(flatClip(100, 10, 0.2), 1.5, 0.9)
	agent := []types.Utterance{{Start: 1.0, End: 2.0, Text: "listen to this"}}
	f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.EmphasisDetected {
		t.Error("spike inside utterance window should set emphasis_detected")
	}
}

func TestAnalyze_NoEmphasisOnFlatAudio(t *testing.T) {
	clip := flatClip(100, 10, 0.2)
	agent := []types.Utterance{{Start: 1.0, End: 2.0, Text: "flat delivery"}}
	f, _ := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
	if f.EmphasisDetected {
		t.Error("constant amplitude should not register emphasis")
	}
}

func TestAnalyze_EmphasisShortCircuit(t *testing.T) {
	// First utterance qualifies; second points past the end of the clip.
	// The scan must stop at the first hit, so the bad window is never read.
	clip := spikeAt(flatClip(100, 10, 0.2), 1.5, 0.9)
	agent := []types.Utterance{
		{Start: 1.0, End: 2.0, Text: "emphasized"},
		{Start: 500.0, End: 600.0, Text: "out of bounds"},
	}
	f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.EmphasisDetected {
		t.Error("first qualifying utterance should have set emphasis_detected")
	}
}

func TestAnalyze_OutOfBoundsWindowSkipped(t *testing.T) {
	clip := flatClip(100, 2, 0.2)
	agent := []types.Utterance{{Start: 50.0, End: 60.0, Text: "beyond the clip"}}
	f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
	if err != nil {
		t.Fatalf("out-of-bounds window should be skipped, not fail: %v", err)
	}
	if f.EmphasisDetected {
		t.Error("skipped window must not set emphasis")
	}
}

func TestAnalyze_Pace(t *testing.T) {
	clip := flatClip(100, 60, 0.2)
	tests := []struct {
		name           string
		text           string
		span           float64
		wantFast       bool
		wantDeliberate bool
	}{
		{"fast", "one two three four five six seven eight nine ten", 2.0, true, false},
		{"deliberate", "just two", 4.0, false, true},
		{"normal", "four words right here", 2.0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := []types.Utterance{{Start: 1.0, End: 1.0 + tt.span, Text: tt.text}}
			f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, agent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.IsFastPace != tt.wantFast || f.IsDeliberate != tt.wantDeliberate {
				t.Errorf("wps=%.2f fast=%v deliberate=%v, want fast=%v deliberate=%v",
					f.WordsPerSecond, f.IsFastPace, f.IsDeliberate, tt.wantFast, tt.wantDeliberate)
			}
		})
	}
}

func TestAnalyze_EmptyAgentList(t *testing.T) {
	f, err := NewAnalyzer(DefaultConfig()).Analyze(flatClip(100, 10, 0.2), nil)
	if err != nil {
		t.Fatalf("empty agent list is not an error: %v", err)
	}
	if f.EmphasisDetected || len(f.Pauses) != 0 || f.WordsPerSecond != 0 {
		t.Errorf("expected empty bag, got %+v", f)
	}
}

func TestAnalyze_InvalidSampleRate(t *testing.T) {
	clip := types.AudioClip{Samples: []float64{0.1, 0.2}, SampleRate: 0}
	f, err := NewAnalyzer(DefaultConfig()).Analyze(clip, []types.Utterance{{Start: 0, End: 1, Text: "x"}})
	if err == nil {
		t.Fatal("invalid sample rate should return an error")
	}
	if f.EmphasisDetected || len(f.Pauses) != 0 {
		t.Errorf("failed analysis must return zero features, got %+v", f)
	}
}
