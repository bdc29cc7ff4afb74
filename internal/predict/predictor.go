package predict

import (
	"log/slog"
	"math"
	"time"

	"github.com/equipsense/equipsense/internal/derive"
	"github.com/equipsense/equipsense/internal/feature"
	"github.com/equipsense/equipsense/internal/model"
	"github.com/equipsense/equipsense/internal/recommend"
	"github.com/equipsense/equipsense/internal/rules"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Values of the prediction_method tag.
const (
	MethodML   = "ml_model"
	MethodRule = "rule_based"
)

// Assessment is the complete health assessment for one telemetry record.
type Assessment struct {
	HealthScore           float64        `json:"health_score"`
	RemainingLifeDays     int            `json:"remaining_life_days"`
	MaintenanceNeededDays int            `json:"maintenance_needed_days"`
	RiskLevel             string         `json:"risk_level"`
	Recommendations       []string       `json:"recommendations"`
	CriticalIssues        []string       `json:"critical_issues"`
	Warnings              []string       `json:"warnings"`
	Analysis              rules.Analysis `json:"analysis"`
	EquipmentType         string         `json:"equipment_type"`
	AnalyzedAt            string         `json:"analyzed_at"`
	PredictionMethod      string         `json:"prediction_method"`
}

// Predictor assesses telemetry records. Immutable after construction and
// safe for concurrent use; concurrent assessments share only the read-only
// profile table and model artifacts.
type Predictor struct {
	bundle  *model.Bundle
	encoder *feature.Encoder

	// predictFn defaults to bundle.Predict; injectable for tests.
	predictFn func([]float64) (float64, error)

	// now is injectable so tests control the assessment timestamp.
	now func() time.Time
}

// New returns an ML-with-fallback predictor over a fully loaded bundle.
// Pass the result of model.Load only; a nil bundle means rule-only.
func New(bundle *model.Bundle) *Predictor {
	p := &Predictor{bundle: bundle, now: time.Now}
	if bundle != nil {
		p.encoder = feature.NewEncoder(bundle.Vocabulary())
		p.predictFn = bundle.Predict
	}
	return p
}

// NewRuleOnly returns a predictor that always takes the rule path.
func NewRuleOnly() *Predictor {
	return New(nil)
}

// MLEnabled reports whether the predictor was built with a model bundle.
func (p *Predictor) MLEnabled() bool {
	return p.bundle != nil
}

// Assess produces a complete assessment for rec. It is total for
// well-formed input: ML-path failures are recovered by the rule path and
// only a structurally invalid record returns an error.
func (p *Predictor) Assess(rec *telemetry.Record) (*Assessment, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	// The rule evaluation always runs: it supplies the fallback score and
	// the subsystem analysis both paths report.
	ruleRes := rules.Evaluate(rec)
	score := ruleRes.Score
	method := MethodRule

	if p.bundle != nil {
		if est, ok := p.mlScore(rec); ok {
			score = est
			method = MethodML
		}
	}

	recs := recommend.Generate(rec, score)
	critical, warnings := recommend.Split(recs)

	analysis := ruleRes.Analysis
	analysis.OverallCondition = derive.OverallCondition(score)

	return &Assessment{
		HealthScore:           math.Round(score*10) / 10,
		RemainingLifeDays:     derive.RemainingLifeDays(score, rec.Type()),
		MaintenanceNeededDays: derive.MaintenanceDays(score),
		RiskLevel:             derive.RiskLevel(score),
		Recommendations:       recs,
		CriticalIssues:        critical,
		Warnings:              warnings,
		Analysis:              analysis,
		EquipmentType:         rec.EquipmentType,
		AnalyzedAt:            p.now().UTC().Format(time.RFC3339),
		PredictionMethod:      method,
	}, nil
}

// mlScore attempts the ML path. Any failure is logged as a diagnostic and
// reported as not-ok; it must never surface to the caller.
func (p *Predictor) mlScore(rec *telemetry.Record) (float64, bool) {
	vec, known := p.encoder.Encode(rec)
	if !known {
		slog.Warn("predict: equipment type absent from model vocabulary, encoded as 0",
			"equipment_type", rec.EquipmentType)
	}
	est, err := p.predictFn(vec)
	if err != nil {
		slog.Warn("predict: ml prediction failed, falling back to rule path",
			"equipment_type", rec.EquipmentType, "err", err)
		return 0, false
	}
	return derive.Clamp(est), true
}
