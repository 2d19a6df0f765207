// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the access engine by
// exposing a single factory, New, that creates a *slog.Logger configured by
// a set of Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a request id) on every Handle call.
//
// Helper constructors such as OrgID, PlanID, QuotaKey and AccessSource live
// in attr.go and keep attribute naming consistent across the resolver, the
// grant service and the admission gate, whose warnings are the primary
// operator-facing signal for invariant violations.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Environment, "accesskit"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//
//	resolver := access.NewResolver(subs, grants, catalog, access.WithLogger(log))
package logger
