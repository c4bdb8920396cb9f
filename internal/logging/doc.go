// Package logging provides structured logging for gimbalctl.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (frame hex dumps, discarded frames)
//   - Info: Normal operations (connections, commands, state changes)
//   - Warn: Non-fatal issues (connection drops, retries)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Gimbal connected",
//	    zap.String("addr", "192.168.144.200:2000"),
//	    zap.String("firmware", "2.1.0"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Connection Logging:
//
//	logging.LogConnection(addr, "connected")
//	logging.LogConnection(addr, "disconnected")
//
// Frame Logging:
//
//	logging.LogFrame("send", frame)
//	logging.LogFrame("recv", frame)
//
// # Configuration
//
// Logging is silent by default so command output stays clean. Set the
// GIMBALCTL_LOG_LEVEL environment variable (debug, info, warn, error) or
// call Initialize with an explicit level:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stdout in console format (human-readable):
//
//	2026-08-26T10:30:45.123+0200  DEBUG  Frame send
//	  length=24
//	  hex=4b4b0000000000000000000040880101...
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
