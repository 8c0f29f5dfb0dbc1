// Package events defines the messages exchanged with dashboard pages over
// the /ws WebSocket.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnection greets a newly registered client
	MessageTypeConnection MessageType = "connection"

	// MessageTypeDatasetLoaded announces a new current table; pages reload
	MessageTypeDatasetLoaded MessageType = "dataset:loaded"

	// MessageTypeHeartbeat is sent by pages to keep the connection alive
	MessageTypeHeartbeat MessageType = "heartbeat"
)

// Message is the envelope of every server-sent WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// ConnectionData is the payload of a connection message
type ConnectionData struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
}

// NewMessage stamps a message with the current UTC time
func NewMessage(messageType MessageType, data interface{}, traceID string) Message {
	return Message{
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
	}
}
