package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"call-audit-go/internal/fusion"
)

// CallAudit pairs a manifest call with its enhanced result.
type CallAudit struct {
	CallID string                `json:"call_id"`
	Result fusion.EnhancedResult `json:"result"`
	Error  string                `json:"error,omitempty"`
}

// Summary aggregates one batch run.
type Summary struct {
	TotalCalls   int            `json:"total_calls"`
	Rebuttals    int            `json:"rebuttals"`
	Upgraded     int            `json:"upgraded"`
	Failed       int            `json:"failed"`
	AvgBoost     float64        `json:"avg_boost"`
	ReasonCounts map[string]int `json:"reason_counts"`
}

// Summarize rolls a batch of audits into counts and rates.
func Summarize(audits []CallAudit) Summary {
	s := Summary{TotalCalls: len(audits), ReasonCounts: map[string]int{}}
	var boostSum float64
	scored := 0
	for _, a := range audits {
		if a.Error != "" {
			s.Failed++
			continue
		}
		scored++
		boostSum += a.Result.ConfidenceBoost
		if a.Result.Result == "Yes" {
			s.Rebuttals++
		}
		if a.Result.UpgradedByMultiSignal {
			s.Upgraded++
		}
		for _, r := range a.Result.BoostReasons {
			s.ReasonCounts[r]++
		}
	}
	if scored > 0 {
		s.AvgBoost = boostSum / float64(scored)
	}
	return s
}

// Write saves the per-call audits and the batch summary as an xlsx
// workbook with two sheets.
func Write(path string, audits []CallAudit) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audits"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []interface{}{
		"Call ID", "Result", "Confidence", "Boost", "Upgraded",
		"Boost Reasons", "Sequences", "Turns", "Patterns", "Error",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, a := range audits {
		patternNames := make([]string, 0, len(a.Result.Patterns))
		for _, m := range a.Result.Patterns {
			patternNames = append(patternNames, m.Pattern)
		}
		row := []interface{}{
			a.CallID,
			a.Result.Result,
			a.Result.ConfidenceScore,
			a.Result.ConfidenceBoost,
			a.Result.UpgradedByMultiSignal,
			strings.Join(a.Result.BoostReasons, ", "),
			a.Result.Dialogue.SequenceCount,
			a.Result.Dialogue.TurnCount,
			strings.Join(patternNames, ", "),
			a.Error,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	s := Summarize(audits)
	sumSheet := "Summary"
	if _, err := f.NewSheet(sumSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Total calls", s.TotalCalls},
		{"Rebuttals delivered", s.Rebuttals},
		{"Upgraded by multi-signal", s.Upgraded},
		{"Failed", s.Failed},
		{"Average boost", s.AvgBoost},
	}
	for reason, count := range s.ReasonCounts {
		rows = append(rows, []interface{}{"Reason: " + reason, count})
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sumSheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
