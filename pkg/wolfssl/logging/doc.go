// Package logging provides a minimal logging facade for the wolfssl wrapper.
//
// The Logger interface wraps the subset of log/slog the wrapper needs. It is
// small on purpose so applications can plug in their own implementation for
// testing, redaction or an existing logging system.
//
// # Default Implementation
//
//	logger := logging.New(nil) // slog.Default()
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	logger = logging.New(slog.New(handler))
//
// # Redaction
//
// Certificate and key material must never reach a log line. Mark the
// attribute instead:
//
//	logger.Debug(ctx, "private key loaded", logging.Redacted("key"))
//	// key="[redacted]"
//
// # pion
//
// DTLS stacks built on pion take a logging.LoggerFactory. NewPionFactory
// returns one that writes through a Logger, so both layers share one sink:
//
//	factory := logging.NewPionFactory(logger)
//
// # Security Considerations
//
//   - Never log private keys, certificate buffers or raw native handles
//   - Use logging.Redacted() to mark sensitive attributes
//   - File paths are fine to log; file contents are not
package logging
