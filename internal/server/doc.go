// Package server wires the pose streaming pipeline together.
//
// It owns the shared mailbox, subscriber registry, and stop signal, and
// orchestrates:
//   - the capture loop on a dedicated goroutine
//   - the broadcast loop
//   - HTTP routing with Gin (health, stats, metrics, websocket upgrade)
//   - middleware stack (recovery, metrics, CORS, rate limiting)
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger (production or development)
//  3. Build mailbox, registry, stop signal, and both loops
//  4. Bind the listen address (fatal before any loop starts)
//  5. Start loops, serve HTTP
//  6. Graceful shutdown: trip stop, close subscribers, bounded waits
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg, source, estimator)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
