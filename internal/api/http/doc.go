// Package http provides HTTP handlers and routing for the phone shell REST API.
//
// Endpoints (under /api/v1 unless noted):
//   - Health: / and /health (root)
//   - State: /state, /contacts
//   - Navigation: /nav, /nav/home, /nav/skins, /nav/unlock|lock|paginate|close, /nav/open, /skin/:skin
//   - Messages: /messages, /messages/:contact_id, /messages/:contact_id/read, /itinerary/share
//   - Shopping: /cart, /cart/:id, /cart/:id/checkout, /cart/checkout, /ledger
//   - Rides: /ride, /ride/start, /ride/complete, /ride/from-event/:id
//   - Apps: /apps, /apps/:id/install
//   - Mail, calendar and music: /mail, /calendar, /music
//
// Errors are JSON {"error": "..."}: 400 for invalid input, 404 for unknown
// entities and apps, 409 when the current state forbids the action.
//
// Example Usage:
//
//	handlers := http.NewHandlers(store, apps, nav, router, metrics, logger)
//	handlers.Register(engine)
package http
