// Package tracing integrates OpenTelemetry with the consent pipeline so that
// store writes, drift estimation and decision waits show up as spans. All
// instrumentation is kept in a separate package so that applications which
// do not require tracing can exclude it from their build.
package tracing
