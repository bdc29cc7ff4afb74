// Package store keeps the most recent assessment per equipment unit in
// memory. Entries expire after a configurable TTL; a background goroutine
// (Run) evicts stale units so the fleet views only show live equipment.
package store
