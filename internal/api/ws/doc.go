// Package ws streams committed changes to WebSocket clients.
//
// Every store mutation and navigation transition is pushed as a frame:
//
//	{"type":"change","kind":"ride.changed","entity":"ride","payload":{...},"timestamp":1714550400}
//
// Message Types (Client → Server):
//   - ping: keep-alive, answered with pong
//   - snapshot: request the full entity state
//
// Message Types (Server → Client):
//   - system: connection established
//   - change: one committed mutation
//   - snapshot: full state, on request
//   - error: unknown request
//
// Example Usage:
//
//	handler := ws.NewHandler(store.Bus(), logger).WithMetrics(metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
