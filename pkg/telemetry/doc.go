// Package telemetry provides observability for the platform resource
// engine: structured logging (zerolog), metrics (Prometheus), distributed
// tracing (OpenTelemetry) and a lightweight event stream for initialization
// timelines.
//
// A nil *Metrics or *Tracer is a no-op, so library code can record
// unconditionally without wiring telemetry first.
package telemetry
