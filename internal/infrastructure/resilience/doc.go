/*
Package resilience guards calls to the generation service with a circuit breaker.

A dead or slow generation endpoint should cost a reply, not a stalled router.
Once the breaker is open, reply tasks fail fast with ErrCircuitOpen and the
router drops them like any other generation failure.

# Generation breaker

The HTTP generator builds its breaker from config:

	breaker := resilience.New("generation", resilience.Settings{
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown, // GEN_BREAKER_COOLDOWN, 30s
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures // GEN_BREAKER_FAILURES, 5
		},
	})

	err := breaker.Execute(ctx, func(ctx context.Context) error {
		return postReply(ctx, topic)
	})

Interval is left at its one-minute default, so closed-state counts reset
every minute and a success breaks the streak. BreakerFailures errors in a row
open the circuit. After the cooldown a single trial request is let through;
success closes the circuit, failure reopens it.

# What counts as a failure

A caller that cancels its context (the router shutting down, a client going
away) is not the service's fault. Execute returns context.Canceled without
counting it, and a context already cancelled before the call never reaches
the breaker. A deadline is counted, since a timeout is what a slow service
looks like. Settings.IsSuccessful overrides the rule.

Call wraps Execute for functions that return a value.
*/
package resilience
