package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ironsheep/room-analyzer-mcp/internal/config"
	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
	"github.com/ironsheep/room-analyzer-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// healthTimeout bounds the startup probe of an HTTP detector.
const healthTimeout = 5 * time.Second

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "room-analyzer-mcp - MCP server for AI room analysis")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: room-analyzer-mcp [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintf(out, "  %s=debug            Enable debug logging\n", config.EnvLogLevel)
	fmt.Fprintf(out, "  %s=URL           Use the HTTP detector at URL\n", config.EnvDetectorURL)
	fmt.Fprintf(out, "  %s=http|sidecar|none Select the detector\n", config.EnvDetector)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(out, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&showVersion, "v", false, "Print version information (shorthand)")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("room-analyzer-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(configPath, nil)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Room Analyzer MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Detector: %s %s", cfg.Detector.Kind, cfg.Detector.URL)
	}

	detector, err := config.NewDetector(cfg.Detector)
	if err != nil {
		log.Fatalf("Detector error: %v", err)
	}
	checkDetector(detector)

	server.Version = Version
	srv := server.New(server.WithConfig(cfg), server.WithDetector(detector))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// checkDetector probes an HTTP detector once. An unreachable detector is not
// fatal; the server still starts and analysis calls report the failure.
func checkDetector(d detection.Detector) {
	hd, ok := d.(*detection.HTTPDetector)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	if err := hd.CheckHealth(ctx); err != nil {
		log.Printf("Warning: detector health check failed: %v", err)
	}
}
