package drill

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mergington/rollcall/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "drill_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the signup drill tool.
func ShowHelp() {
	os.Stdout.WriteString(`Rollcall Signup Drill
=====================

A concurrent tool for exercising the activity signup service with synthetic
students, verifying rosters afterwards, and optionally cleaning up.

Usage:
  go run cmd/signup-drill/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -students int
        Number of synthetic students to sign up (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -unregister
        Unregister the synthetic students after verification (default true)
  -log string
        Log file for drill output (default: drill_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Drill with default settings
  go run cmd/signup-drill/main.go

  # Drill with custom parameters
  go run cmd/signup-drill/main.go -students 1000 -workers 16 -url http://localhost:8080

  # Fill rosters and leave the signups in place
  go run cmd/signup-drill/main.go -students 500 -unregister=false

  # Drill with verbose output and a custom log file
  go run cmd/signup-drill/main.go -verbose -log my_drill.log
`)
}
