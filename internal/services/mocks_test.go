package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBroadcaster records dashboard events
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, messageType string, data interface{}) {
	m.Called(ctx, messageType, data)
}

type stubDataset bool

func (s stubDataset) Loaded() bool { return bool(s) }

type stubHub struct {
	running bool
	clients int
}

func (h stubHub) Running() bool    { return h.running }
func (h stubHub) ClientCount() int { return h.clients }
