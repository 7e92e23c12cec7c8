// Package logging provides structured logging using uber/zap.
//
// Production writes JSON, development writes colored console output.
// Each shell component takes a named child logger:
//
//	logger := logging.NewDefault()
//	routerLog := logger.Named("router")
//	routerLog.Warn("reply generation failed", zap.String("contact", id), zap.Error(err))
package logging
