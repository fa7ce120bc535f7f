package mocks

import (
	"context"
	"sync"

	"insightly/internal/llm"
)

// MockTextGenerator provides a mock implementation of llm.TextGenerator.
// It is safe for concurrent use and records every request it receives.
type MockTextGenerator struct {
	GenerateTextFunc func(ctx context.Context, req llm.Request) (string, error)
	Provider         string
	Model            string

	mu       sync.Mutex
	requests []llm.Request
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, req)
	}
	return "[]", nil
}

func (m *MockTextGenerator) Name() string {
	if m.Provider != "" {
		return m.Provider
	}
	return "mock"
}

func (m *MockTextGenerator) ModelName() string {
	if m.Model != "" {
		return m.Model
	}
	return "mock-model"
}

// Requests returns a copy of the requests received so far.
func (m *MockTextGenerator) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of GenerateText calls.
func (m *MockTextGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
