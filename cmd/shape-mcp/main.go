package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/shape-tools-mcp/internal/logger"
	"github.com/ironsheep/shape-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("shape-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("shape-tools-mcp - MCP server for recovering lines and shapes from line art")
			fmt.Println()
			fmt.Println("Usage: shape-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SHAPE_MCP_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println("  SHAPE_MCP_LOG_FORMAT=console Human readable logs instead of JSON")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Logs go to stderr; stdout is for MCP protocol
	level := logger.LevelFromEnv("SHAPE_MCP_LOG_LEVEL")
	log := logger.New(os.Stderr, level)
	if os.Getenv("SHAPE_MCP_LOG_FORMAT") == "console" {
		log = logger.NewConsole(os.Stderr, level)
	}

	log.Info().
		Str("version", Version).
		Str("built", BuildTime).
		Str("commit", GitCommit).
		Msg("shape-tools-mcp starting")

	srv := server.NewWithLogger(log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
