// Package log provides the logging abstraction used across modemprov.
//
// This package defines a Logger interface that can be implemented by any
// logging library. A zerolog adapter is provided for the CLI, and a no-op
// logger is the default for embedded use and tests.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//	logger.Info("connected to network", log.String("network", "home"))
//
// Implement the Logger interface to integrate with existing logging
// infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
