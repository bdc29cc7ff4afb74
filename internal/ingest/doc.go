// Package ingest subscribes to an MQTT request topic of telemetry JSON,
// assesses each message, and publishes the assessment envelope to the
// result topic. Malformed payloads publish the failure envelope instead of
// being dropped, so producers can observe their own bad input.
package ingest
