// Package telemetry defines the wire-level telemetry record: one reading of
// heterogeneous sensor fields for a single piece of equipment. Every sensor
// field is optional; an absent field and an explicit null are the same
// "not provided" state.
package telemetry
