// Package logging provides the small logging facade used across the module.
//
// Logger wraps log/slog with context-aware methods so applications can plug
// in their own handler, or a recorder in tests:
//
//	handler, err := logging.NewHandler(os.Stderr, "json", "debug")
//	if err != nil { ... }
//	logger := logging.New(slog.New(handler))
//	logger.Info(ctx, "sorting touchpoints", "count", 8)
//
// Shares and plaintext touchpoint fields must never be logged. Use Redacted
// to keep the attribute key in the record without its value:
//
//	logger.Debug(ctx, "shared input", "bits", n, logging.Redacted("blocks"))
//	// Logs: bits=195 blocks="[redacted]"
package logging
