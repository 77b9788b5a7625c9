// Package instrumentation provides OpenTelemetry metrics for zoombridge.
//
// The adapter records a counter and a duration histogram per Zoom API
// operation, plus a counter for OAuth token refresh attempts. Metrics are
// recorded through the OTel metric API; when instrumentation is disabled a
// noop meter backs the same recorder so call sites never branch.
package instrumentation
