/*
Package observability provides observers that watch debloat sessions.

Broadcaster fans session updates out to streaming subscribers (SSE clients),
and Metrics records run, step and toggle counters for Prometheus.
*/
package observability
