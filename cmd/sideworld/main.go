package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sideworld/internal/config"
	"sideworld/internal/engine"
	"sideworld/internal/session"
	"sideworld/internal/world"
)

func main() {
	var (
		cfgPath    string
		duration   time.Duration
		previewDir string
	)
	flag.StringVar(&cfgPath, "config", "", "path to world configuration file (json, yaml or toml)")
	flag.DurationVar(&duration, "duration", 0, "stop after this long; zero runs until interrupted")
	flag.StringVar(&previewDir, "preview", "", "write a PNG of the live window to this directory on exit")
	flag.Parse()

	if wrote, err := writeConfigFromEnv(cfgPath); err != nil {
		log.Fatalf("sync config from environment: %v", err)
	} else if wrote {
		log.Printf("config written to %s from environment", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Session.JitterSeed == 0 {
		cfg.Session.JitterSeed = time.Now().UnixNano()
	}

	logger := log.New(log.Writer(), "[sideworld] ", log.LstdFlags|log.Lmicroseconds)
	host := engine.NewHeadless(float64(cfg.World.BlockSize))
	sess, err := session.New(cfg, host, nil, logger)
	if err != nil {
		log.Fatalf("initialise session: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	if duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, duration)
		defer stop()
	}

	err = sess.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.Is(err, session.ErrObserverDown):
		logger.Printf("game over after %d ticks, score %d", sess.Ticks(), sess.Score())
	default:
		log.Fatalf("session exited with error: %v", err)
	}

	if previewDir != "" {
		path, err := world.SaveWindowPreview(sess.Window(), host, previewDir)
		if err != nil {
			logger.Printf("preview failed: %v", err)
		} else {
			logger.Printf("preview written to %s", path)
		}
	}
	sess.Close()
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
