package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"call-audit-go/internal/types"
)

// LoadManifest reads a batch audit manifest. Columns are detected by
// header heuristics so exports from different tooling still load.
func LoadManifest(path string) ([]types.CallRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	header := rows[0]
	callIDIdx := -1
	audioIdx := -1
	agentIdx := -1
	ownerIdx := -1
	resultIdx := -1
	confIdx := -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "audio") || strings.Contains(l, "record") || strings.Contains(l, "url"):
			if audioIdx == -1 {
				audioIdx = i
			}
		case strings.Contains(l, "agent"):
			if agentIdx == -1 {
				agentIdx = i
			}
		case strings.Contains(l, "owner") || strings.Contains(l, "customer"):
			if ownerIdx == -1 {
				ownerIdx = i
			}
		case strings.Contains(l, "confidence") || strings.Contains(l, "score"):
			if confIdx == -1 {
				confIdx = i
			}
		case strings.Contains(l, "result") || strings.Contains(l, "verdict"):
			if resultIdx == -1 {
				resultIdx = i
			}
		case strings.Contains(l, "call id") || strings.Contains(l, "callid") || strings.Contains(l, "id"):
			if callIDIdx == -1 {
				callIDIdx = i
			}
		}
	}
	if audioIdx == -1 {
		return nil, fmt.Errorf("no audio column detected in header %v", header)
	}

	var out []types.CallRecord
	for i, r := range rows {
		if i == 0 {
			continue
		}
		rec := types.CallRecord{BaseResult: types.VerdictNo}
		if callIDIdx >= 0 && callIDIdx < len(r) {
			rec.CallID = strings.TrimSpace(r[callIDIdx])
		}
		if audioIdx < len(r) {
			rec.AudioPath = strings.TrimSpace(r[audioIdx])
		}
		if agentIdx >= 0 && agentIdx < len(r) {
			rec.AgentTranscriptPath = strings.TrimSpace(r[agentIdx])
		}
		if ownerIdx >= 0 && ownerIdx < len(r) {
			rec.OwnerTranscriptPath = strings.TrimSpace(r[ownerIdx])
		}
		if resultIdx >= 0 && resultIdx < len(r) && strings.TrimSpace(r[resultIdx]) != "" {
			rec.BaseResult = strings.TrimSpace(r[resultIdx])
		}
		if confIdx >= 0 && confIdx < len(r) {
			rec.BaseConfidence, _ = strconv.ParseFloat(strings.TrimSpace(r[confIdx]), 64)
		}
		// rows without audio are not auditable, skip quietly
		if rec.AudioPath == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
