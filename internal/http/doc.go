// Package http provides the HTTP surface of the pose streaming server.
//
// Endpoints:
//   - Health: / and /health
//   - Stats: /stats (registry size, capture freshness)
//   - Stream: /stream (WebSocket upgrade, handled by package ws)
//   - Metrics: /metrics (Prometheus exposition)
package http
