// Package scrape pulls telemetry from equipment that exposes its sensor
// readings as Prometheus gauges. Each configured source is polled on an
// interval, the text exposition is parsed into a telemetry record (absent
// metrics stay absent fields), and the resulting assessment is written to
// the store.
package scrape
