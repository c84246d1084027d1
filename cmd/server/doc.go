// Package main is the entry point for the pose streaming server.
//
// The server captures frames at its own pace, estimates pose landmarks,
// and broadcasts the latest snapshot to all connected WebSocket
// subscribers at a fixed tick rate. Producer and delivery cadences are
// fully decoupled through a single-slot mailbox.
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - -dev flag for colored debug logging
//
// Usage:
//
//	# Production mode
//	PORT=8765 CAPTURE_FPS=30 BROADCAST_FPS=30 ./server
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
