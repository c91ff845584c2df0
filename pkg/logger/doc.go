// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers so log keys stay consistent across packages.
//
//	log := logger.New(
//	    logger.WithProduction("paramguard"),
//	    logger.WithContextValue("run_id", runIDKey{}),
//	)
//	log.Info("schemas loaded", logger.Count(len(names)), logger.Component("registry"))
//
// WithFormat panics on an unknown format. Error and Errors return an empty
// attribute for nil errors, so they can be passed without a nil check.
package logger
