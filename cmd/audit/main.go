package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"call-audit-go/internal/audio"
	"call-audit-go/internal/dataset"
	"call-audit-go/internal/fusion"
	"call-audit-go/internal/logger"
	"call-audit-go/internal/report"
	"call-audit-go/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	var (
		manifestPath = flag.String("manifest", envOr("MANIFEST_PATH", ""), "xlsx batch manifest of calls to audit")
		audioPath    = flag.String("audio", "", "single call: recording path or URL")
		agentPath    = flag.String("agent", "", "single call: agent transcript JSON")
		ownerPath    = flag.String("owner", "", "single call: owner transcript JSON")
		baseVerdict  = flag.String("result", types.VerdictNo, "single call: base verdict from the phrase matcher")
		baseConf     = flag.Float64("confidence", 0, "single call: base confidence score")
		reportPath   = flag.String("report", "", "write an xlsx audit report here")
	)
	flag.Parse()

	log := logger.New()
	log.WithField("service", "call-audit-go").Info("starting audit")

	engine := fusion.NewEngine()

	var records []types.CallRecord
	switch {
	case *manifestPath != "":
		log.WithField("manifest", *manifestPath).Info("loading batch manifest")
		recs, err := dataset.LoadManifest(*manifestPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load manifest")
		}
		records = recs
	case *audioPath != "":
		records = []types.CallRecord{{
			AudioPath:           *audioPath,
			AgentTranscriptPath: *agentPath,
			OwnerTranscriptPath: *ownerPath,
			BaseResult:          *baseVerdict,
			BaseConfidence:      *baseConf,
		}}
	default:
		log.Fatal("nothing to do: pass -manifest or -audio")
	}

	audits := make([]report.CallAudit, 0, len(records))
	for _, rec := range records {
		callLog := log.WithCall(rec.CallID)
		res, err := auditCall(engine, rec)
		audit := report.CallAudit{CallID: rec.CallID, Result: res}
		if err != nil {
			callLog.WithError(err).Warn("audit failed")
			audit.Error = err.Error()
		} else {
			callLog.WithField("result", res.Result).
				WithField("confidence", res.ConfidenceScore).
				WithField("boost", res.ConfidenceBoost).
				Info("call audited")
		}
		audits = append(audits, audit)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(audits) == 1 && *manifestPath == "" {
		_ = enc.Encode(audits[0])
	} else {
		out := struct {
			Audits  []report.CallAudit `json:"audits"`
			Summary report.Summary     `json:"summary"`
		}{audits, report.Summarize(audits)}
		_ = enc.Encode(out)
	}

	if *reportPath != "" {
		if err := report.Write(*reportPath, audits); err != nil {
			log.WithError(err).Fatal("failed to write report")
		}
		log.WithField("report", *reportPath).Info("report written")
	}
}

func auditCall(engine *fusion.Engine, rec types.CallRecord) (fusion.EnhancedResult, error) {
	clip, err := audio.Load(rec.AudioPath)
	if err != nil {
		return fusion.EnhancedResult{}, err
	}
	var agent, owner []types.Utterance
	if rec.AgentTranscriptPath != "" {
		if agent, err = dataset.LoadUtterances(rec.AgentTranscriptPath); err != nil {
			return fusion.EnhancedResult{}, err
		}
	}
	if rec.OwnerTranscriptPath != "" {
		if owner, err = dataset.LoadUtterances(rec.OwnerTranscriptPath); err != nil {
			return fusion.EnhancedResult{}, err
		}
	}
	base := types.BaseResult{Result: rec.BaseResult, ConfidenceScore: rec.BaseConfidence}
	return engine.Enhance(base, clip, agent, owner)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
