package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MockConnection is an in-memory Connection. ReadMessage blocks until a
// message is queued with Deliver or the connection is closed.
type MockConnection struct {
	mu       sync.Mutex
	written  []MockMessage
	inbox    chan []byte
	closed   chan struct{}
	once     sync.Once
	writeErr error
}

// MockMessage is one frame written by the client
type MockMessage struct {
	Type int
	Data []byte
}

func NewMockConnection() *MockConnection {
	return &MockConnection{
		inbox:  make(chan []byte, 8),
		closed: make(chan struct{}),
	}
}

func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	select {
	case <-m.closed:
		return errors.New("connection closed")
	default:
	}
	m.written = append(m.written, MockMessage{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.inbox:
		return websocket.TextMessage, msg, nil
	case <-m.closed:
		return 0, nil, &websocket.CloseError{Code: websocket.CloseGoingAway}
	}
}

func (m *MockConnection) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *MockConnection) SetReadDeadline(time.Time) error { return nil }
func (m *MockConnection) SetWriteDeadline(time.Time) error { return nil }
func (m *MockConnection) SetReadLimit(int64) {}
func (m *MockConnection) SetPongHandler(func(string) error) {}
func (m *MockConnection) RemoteAddr() string { return "127.0.0.1:50000" }

// Deliver queues a frame for the client to read
func (m *MockConnection) Deliver(data []byte) { m.inbox <- data }

// Text returns the text frames written so far
func (m *MockConnection) Text() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.written {
		if msg.Type == websocket.TextMessage {
			out = append(out, string(msg.Data))
		}
	}
	return out
}

func (m *MockConnection) IsClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}
