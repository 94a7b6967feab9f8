package timeline

import (
	"sort"

	"call-audit-go/internal/types"
)

// Entry is one utterance in the merged call timeline, tagged with its speaker.
type Entry struct {
	types.Utterance
	Speaker types.Speaker `json:"speaker"`
}

// Merge interleaves the two per-speaker utterance lists into one timeline
// ordered by start time. The sort is stable: on equal starts, entries keep
// their relative order, agent before owner. Inputs are never mutated.
func Merge(agent, owner []types.Utterance) []Entry {
	merged := make([]Entry, 0, len(agent)+len(owner))
	for _, u := range agent {
		merged = append(merged, Entry{Utterance: u, Speaker: types.SpeakerAgent})
	}
	for _, u := range owner {
		merged = append(merged, Entry{Utterance: u, Speaker: types.SpeakerOwner})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	return merged
}
