package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"call-audit-go/internal/types"
)

// LoadUtterances reads one speaker's transcript: a JSON array of
// {start, end, text} objects as produced by the diarization stage.
func LoadUtterances(path string) ([]types.Utterance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var utts []types.Utterance
	if err := json.Unmarshal(data, &utts); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	for i, u := range utts {
		if u.End < u.Start {
			return nil, fmt.Errorf("transcript %s: utterance %d ends before it starts", path, i)
		}
	}
	return utts, nil
}
