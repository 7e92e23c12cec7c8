/*
Package monitoring provides Prometheus metrics for the phone shell.

Metrics live on a private registry, so tests can create as many collectors
as they like without duplicate registration panics.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "reply")
	// ... call the generator ...
	timer.Stop("success")
*/
package monitoring
