package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/posekit/posestream/internal/capture"
	"github.com/posekit/posestream/internal/infrastructure/config"
	"github.com/posekit/posestream/internal/server"
)

func main() {
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	// The synthetic pair stands in for camera + pose model; a real
	// deployment swaps in its own capture.Source / capture.Estimator.
	source := capture.NewSyntheticSource(cfg.Capture.FrameWidth, cfg.Capture.FrameHeight)
	estimator := &capture.SyntheticEstimator{}

	srv, err := server.NewServer(cfg, source, estimator)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// A fatal capture failure trips the stop signal from inside the
	// pipeline; treat it the same as an OS signal.
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
	case <-srv.Stop().Done():
		log.Println("Pipeline stopped, shutting down...")
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}

	if err := srv.Close(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
