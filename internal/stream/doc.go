// Package stream pushes live quote updates to dashboard clients over
// WebSocket. Each subscriber gets its own unbounded outbox so one slow
// client never blocks the publisher or other clients.
package stream
