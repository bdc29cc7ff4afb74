// Package api implements the HTTP REST API for equipsense-server.
//
// New(assessor, store) returns an http.Handler that serves:
//
//	POST /api/v1/assess            — assess one telemetry record (envelope response)
//	GET  /api/v1/fleet             — fleet rollup: count, average score, per-risk counts
//	GET  /api/v1/assessments       — latest assessment per live unit
//	GET  /api/v1/assessments/{id}  — single unit; 404 if unknown or stale
//	GET  /api/v1/profiles          — the equipment profile table
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods
//   - Read live entries from the store (stale entries excluded from lists)
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
