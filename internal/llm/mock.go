package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockReply is one scripted Mock result.
type MockReply struct {
	Content json.RawMessage
	Err     error
}

// Mock replays scripted replies in order and records every request. With
// no replies left it reports the provider as unavailable.
type Mock struct {
	mu      sync.Mutex
	replies []MockReply
	calls   []Request
}

// NewMock creates a Mock with the given replies.
func NewMock(replies ...MockReply) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) ModelID() string { return "mock" }

func (m *Mock) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	if err := req.Schema.Validate(r.Content); err != nil {
		return nil, err
	}
	return &Response{Content: r.Content, Model: "mock", StopReason: stopEnd}, nil
}

// Push appends replies.
func (m *Mock) Push(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Calls returns a copy of the recorded requests.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
