package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gauge-sensor/internal/config"
	"gauge-sensor/internal/poller"
	"gauge-sensor/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	listen := flag.String("listen", "", "API listen address (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gauge-sensor %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Optional .env for deployments that inject the camera token and
	// config path through the environment.
	_ = godotenv.Load()
	if env := os.Getenv("GAUGE_SENSOR_CONFIG"); env != "" && *configPath == "config.yaml" {
		*configPath = env
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	sensors, err := poller.FromConfig(cfg)
	if err != nil {
		log.Fatalf("build sensors: %v", err)
	}

	log.Printf("gauge-sensor %s starting: %d sensor(s), poll interval %s",
		Version, len(sensors), cfg.PollInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	coord := poller.New(cfg.PollInterval(), sensors)
	go coord.Start(ctx)

	srv := server.New(coord)
	if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Printf("gauge-sensor stopped")
}
