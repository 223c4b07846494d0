package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/goccy/go-json"

	"github.com/nlxchange/intent-engine/internal/history"
	"github.com/nlxchange/intent-engine/internal/llm"
	"github.com/nlxchange/intent-engine/pkg/types"
)

// MockAggregator is a mock HTTP server that simulates the swap aggregator
// API for /swap/v1/price and /swap/v1/quote.
type MockAggregator struct {
	*httptest.Server

	mu sync.Mutex

	// Response fields; zero values are omitted from the payload.
	BuyAmount string
	Gas       string
	GasPrice  string
	To        string
	Data      string
	Value     string

	// FailStatus, when non-zero, makes every request fail with that
	// status and FailReason in the body.
	FailStatus int
	FailReason string

	// Captured request state for assertions.
	Requests  int
	LastPath  string
	LastQuery url.Values
}

// NewMockAggregator creates a mock aggregator that quotes every request
// with the given buy amount.
func NewMockAggregator(buyAmount string) *MockAggregator {
	mock := &MockAggregator{
		BuyAmount: buyAmount,
		Gas:       "250000",
		GasPrice:  "30000000000",
		To:        "0x1111111111111111111111111111111111111111",
		Data:      "0xdeadbeef",
		Value:     "0",
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		defer mock.mu.Unlock()

		mock.Requests++
		mock.LastPath = r.URL.Path
		mock.LastQuery = r.URL.Query()

		if mock.FailStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(mock.FailStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{"reason": mock.FailReason})
			return
		}

		resp := map[string]string{
			"buyAmount": mock.BuyAmount,
			"gas":       mock.Gas,
			"gasPrice":  mock.GasPrice,
		}
		if r.URL.Path == "/swap/v1/quote" {
			resp["to"] = mock.To
			resp["data"] = mock.Data
			resp["value"] = mock.Value
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mock.Server = httptest.NewServer(handler)
	return mock
}

// SetBuyAmount changes the quoted buy amount for subsequent requests.
func (m *MockAggregator) SetBuyAmount(buyAmount string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BuyAmount = buyAmount
}

// Fail makes subsequent requests fail with the given status.
func (m *MockAggregator) Fail(status int, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailStatus = status
	m.FailReason = reason
}

// RequestCount returns how many requests the mock has served.
func (m *MockAggregator) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests
}

// Query returns the query parameters of the last request.
func (m *MockAggregator) Query() url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastQuery
}

// MockInterpreter is a canned completion-service interpreter.
type MockInterpreter struct {
	mu    sync.Mutex
	Draft *types.Draft
	Err   error
	Calls int
}

// Interpret returns the canned draft or error.
func (m *MockInterpreter) Interpret(_ context.Context, _ llm.Request) (*types.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Draft, nil
}

// CallCount returns how many times Interpret was invoked.
func (m *MockInterpreter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MemoryStore is an in-memory history store for testing.
type MemoryStore struct {
	mu       sync.Mutex
	Parses   []*history.ParseRecord
	Statuses []*history.StatusRecord
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// RecordParse stores a parse record in memory.
func (s *MemoryStore) RecordParse(_ context.Context, rec *history.ParseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Parses = append(s.Parses, rec)
	return nil
}

// RecordStatus stores a status record in memory.
func (s *MemoryStore) RecordStatus(_ context.Context, rec *history.StatusRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statuses = append(s.Statuses, rec)
	return nil
}

// RecentMessages replays stored parse turns as chat messages, oldest first.
func (s *MemoryStore) RecentMessages(_ context.Context, walletAddress string, n int) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []llm.Message
	start := len(s.Parses) - n
	if start < 0 {
		start = 0
	}
	for _, rec := range s.Parses[start:] {
		if rec.WalletAddress != walletAddress {
			continue
		}
		messages = append(messages,
			llm.Message{Role: "user", Content: rec.Text},
			llm.Message{Role: "assistant", Content: rec.ResponseText})
	}
	return messages, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
