package api

import (
	"time"

	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/store"
)

// FleetResponse is the rollup served by GET /api/v1/fleet.
type FleetResponse struct {
	EquipmentCount int     `json:"equipment_count"`
	AverageScore   float64 `json:"average_score"`
	OverallRisk    string  `json:"overall_risk"`

	LowCount      int `json:"low_count"`
	MediumCount   int `json:"medium_count"`
	HighCount     int `json:"high_count"`
	CriticalCount int `json:"critical_count"`
}

// AssessmentEntry is one unit's latest assessment plus bookkeeping fields.
type AssessmentEntry struct {
	EquipmentID string              `json:"equipment_id"`
	LastSeen    string              `json:"last_seen"`
	Assessment  *predict.Assessment `json:"assessment"`
}

// errorResponse is the JSON body for plain API errors (not the assessment
// envelope, which carries its own success flag).
type errorResponse struct {
	Error string `json:"error"`
}

// toEntry maps a store.Entry to its JSON representation.
func toEntry(e *store.Entry) AssessmentEntry {
	return AssessmentEntry{
		EquipmentID: e.EquipmentID,
		LastSeen:    e.UpdatedAt.UTC().Format(time.RFC3339),
		Assessment:  e.Assessment,
	}
}
