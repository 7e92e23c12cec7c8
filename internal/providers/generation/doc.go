// Package generation produces chat replies and image references for the
// simulated apps.
//
// The router treats a Generator as an opaque async function. Three
// implementations are provided:
//   - HTTPGenerator: calls a remote generation service through resty over a
//     retrying transport, behind a rate limiter and a circuit breaker
//   - Canned: deterministic offline replies, used when no endpoint is set
//   - Fallback: tries a primary generator and falls back to a secondary
//
// Generated text is stripped of all markup before it reaches the store.
package generation
