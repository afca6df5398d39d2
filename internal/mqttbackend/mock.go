package mqttbackend

import (
	"context"
	"sync"
)

// PublishedMessage records a single call to MockSink.Publish.
type PublishedMessage struct {
	Topic   string
	Payload []byte
}

// MockSink records every publish for test assertions, rather than
// dialing a real broker.
type MockSink struct {
	mu        sync.Mutex
	published []PublishedMessage
	closed    bool
	err       error
}

// NewMockSink creates an empty MockSink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Publish(_ context.Context, topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	p := make([]byte, len(payload))
	copy(p, payload)
	m.published = append(m.published, PublishedMessage{Topic: topic, Payload: p})
	return nil
}

func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Published returns a copy of every topic/payload pair published so far.
func (m *MockSink) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

// Closed reports whether Close has been called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SetError causes subsequent Publish calls to fail with err. Pass nil to
// clear.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
