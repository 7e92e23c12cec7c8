// Package router turns app intents into store mutations.
//
// Every public method is one rule. A rule runs inside a single
// store.Update, so other apps see all of its effects or none of them.
// Rules that wait on something (a generated reply, a driver accepting a
// ride, an app download) schedule a task on the router's task group. When
// the task wakes up it re-checks the state it was started for and drops
// its result if that state has moved on. Rides carry an attempt counter for
// this; replies check that the contact still exists; installs check that
// the install is still pending.
//
// Failures inside tasks are logged and counted, never returned.
package router
