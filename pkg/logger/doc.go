// Package logger builds the application's slog.Logger and provides the attr
// helpers used by the connection lifecycle components.
//
// The factory wraps the chosen handler with a decorator that injects
// request-scoped attributes (correlation id, deployment environment) from
// context at log time:
//
//	log := logger.New(
//		logger.WithEnvironment(string(env), "sesame"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
package logger
