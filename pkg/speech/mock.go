package speech

import (
	"context"
	"sync"
	"time"
)

// Mock implements Speaker for testing. Behavior can be customized via
// function fields; every call is recorded for verification.
type Mock struct {
	// SpeakFunc is called when Speak is invoked. If nil, Speak succeeds
	// silently.
	SpeakFunc func(ctx context.Context, text string) error

	// CloseFunc is called when Close is invoked. If nil, Close returns nil.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Text   string
	Time   time.Time
}

// NewMock creates a mock speaker that succeeds on every call.
func NewMock() *Mock {
	return &Mock{}
}

// WithError returns a mock whose Speak always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		SpeakFunc: func(ctx context.Context, text string) error {
			return err
		},
	}
}

// Speak records the call and delegates to SpeakFunc.
func (m *Mock) Speak(ctx context.Context, text string) error {
	m.record("Speak", text)
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// Close records the call and delegates to CloseFunc.
func (m *Mock) Close() error {
	m.record("Close", "")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *Mock) record(method, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method: method,
		Text:   text,
		Time:   time.Now(),
	})
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Spoken returns the texts passed to Speak, in order.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var texts []string
	for _, c := range m.calls {
		if c.Method == "Speak" {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Speaker at compile time.
var _ Speaker = (*Mock)(nil)
