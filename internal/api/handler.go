package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/equipsense/equipsense/internal/derive"
	"github.com/equipsense/equipsense/internal/equipment"
	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/store"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Assessor produces assessments from telemetry records. Satisfied by
// *predict.Predictor and by the server's hot-swappable predictor holder.
type Assessor interface {
	Assess(rec *telemetry.Record) (*predict.Assessment, error)
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	assessor Assessor
	store    *store.Store
	mux      *http.ServeMux
}

// New creates a Handler wired to the given assessor and assessment store
// and registers all routes.
func New(assessor Assessor, st *store.Store) http.Handler {
	h := &Handler{assessor: assessor, store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/assess", h.assess)
	h.mux.HandleFunc("/api/v1/fleet", h.fleet)
	h.mux.HandleFunc("/api/v1/assessments", h.listAssessments)
	h.mux.HandleFunc("/api/v1/assessments/", h.getAssessment) // subtree — extracts {id}
	h.mux.HandleFunc("/api/v1/profiles", h.profiles)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// assess handles POST /api/v1/assess — one telemetry record in, one
// assessment envelope out. Malformed input yields the failure envelope with
// status 400; the request is never partially assessed.
func (h *Handler) assess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rec, err := telemetry.Decode(r.Body)
	if err != nil {
		jsonResp(w, http.StatusBadRequest, predict.Fail(err))
		return
	}

	a, err := h.assessor.Assess(rec)
	if err != nil {
		jsonResp(w, http.StatusInternalServerError, predict.Fail(err))
		return
	}

	if rec.EquipmentID != "" {
		h.store.Put(rec.EquipmentID, a)
	}
	jsonResp(w, http.StatusOK, predict.Succeed(a))
}

// fleet handles GET /api/v1/fleet — aggregate health over live units.
func (h *Handler) fleet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, Fleet(h.store))
}

// listAssessments handles GET /api/v1/assessments — latest per live unit.
func (h *Handler) listAssessments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := h.store.List()
	out := make([]AssessmentEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntry(e))
	}
	jsonResp(w, http.StatusOK, out)
}

// getAssessment handles GET /api/v1/assessments/{id} — one live unit.
func (h *Handler) getAssessment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/assessments/")
	if id == "" {
		h.listAssessments(w, r)
		return
	}

	e, ok := h.store.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "equipment not found")
		return
	}
	// Exclude stale entries — treat them as not found.
	if time.Since(e.UpdatedAt) > h.store.TTL() {
		jsonErr(w, http.StatusNotFound, "equipment not found")
		return
	}

	jsonResp(w, http.StatusOK, toEntry(e))
}

// profiles handles GET /api/v1/profiles — the immutable profile table.
func (h *Handler) profiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, equipment.Profiles())
}

// --- helpers ----------------------------------------------------------------

// Fleet computes the rollup over the store's live entries. Exported so the
// WebSocket hub broadcasts exactly what the REST endpoint serves.
func Fleet(st *store.Store) FleetResponse {
	entries := st.List()
	resp := FleetResponse{EquipmentCount: len(entries)}
	if len(entries) == 0 {
		resp.OverallRisk = "unknown"
		return resp
	}

	var total float64
	for _, e := range entries {
		total += e.Assessment.HealthScore
		switch e.Assessment.RiskLevel {
		case derive.RiskLow:
			resp.LowCount++
		case derive.RiskMedium:
			resp.MediumCount++
		case derive.RiskHigh:
			resp.HighCount++
		case derive.RiskCritical:
			resp.CriticalCount++
		}
	}
	resp.AverageScore = total / float64(len(entries))
	resp.OverallRisk = derive.RiskLevel(resp.AverageScore)
	return resp
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
