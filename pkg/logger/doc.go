// Package logger builds slog loggers with environment presets, context
// attribute extraction and consistent attribute names.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "tenantgate"),
//		logger.WithContextExtractors(logger.ContextValue("request_id", requestIDKey{})),
//	)
//	log.InfoContext(ctx, "access denied",
//		logger.OrganizationID(orgID),
//		logger.Reason("FORBIDDEN"),
//	)
//
// Attribute helpers that take optional values return an empty slog.Attr for
// zero input, which slog drops.
package logger
