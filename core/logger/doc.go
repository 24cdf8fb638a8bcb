// Package logger provides slog attribute helpers shared across the SDK.
//
// Helpers follow the empty-Attr pattern: passing a nil error or empty
// identifier yields an empty attribute that slog silently drops, so call
// sites never need nil checks:
//
//	log.Info("revalidation finished",
//		logger.Component("session"),
//		logger.SessionStatus("authed"),
//		logger.Error(err), // safe when err == nil
//	)
//
// Domain-specific helpers (SessionStatus, Namespace, Origin) keep
// attribute keys consistent between the manager, the stores, and the CLI.
package logger
