// Package predict implements the dual-path health predictor. A predictor is
// configured exactly once at construction as rule-only or ML-with-fallback;
// per-request ML failures fall back to the rule path for that request only
// and are never fatal. Both paths share the derive and recommend packages,
// so the assessment schema is identical apart from the prediction_method
// tag.
package predict
