// Package websocket pushes dataset events to connected dashboard pages.
// Envelopes follow pkg/contracts/events.
//
// A single Hub goroutine owns the client set. Clients are registered by
// the /ws handler and each runs a read pump (keepalive, close detection)
// and a write pump (fan-out, pings). Messages are JSON envelopes:
//
//	{"type": "dataset:loaded", "data": {...}, "timestamp": "...", "trace_id": "..."}
package websocket
