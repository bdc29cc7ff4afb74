// Package feature encodes a telemetry record into the fixed-order numeric
// vector the regression model was trained on. The slot order and the
// missing-value defaults are a hard compatibility contract with the
// training pipeline: any drift silently corrupts predictions.
package feature
