// Package rules implements the deterministic health scoring path: additive
// penalty accumulation over the sensor fields present in a record,
// dispatched by equipment category. As a byproduct it fills the
// per-subsystem analysis status map that both prediction paths report.
package rules
