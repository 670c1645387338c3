package graph

import (
	"context"
	"sync"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Cypher    string
	Params    map[string]any
	Timestamp time.Time
}

// MockClient is a mock implementation of Client for testing.
// It records every issued statement in order and returns queued results,
// which lets tests assert both the shape of the Cypher sent to the store and
// the ordering guarantees of the callers.
type MockClient struct {
	mu sync.RWMutex

	connected    bool
	healthStatus types.HealthStatus
	calls        []MockCall

	// Queued read results, consumed in FIFO order. When the queue is empty,
	// reads return an empty QueryResult.
	readResults []QueryResult

	// Configurable errors
	connectError error
	closeError   error
	readError    error
	writeError   error
}

// NewMockClient creates a new mock graph client for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		healthStatus: types.Healthy("mock graph client"),
	}
}

// Connect records the call and simulates connection.
func (m *MockClient) Connect(ctx context.Context) error {
	m.record("Connect", "", nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connectError != nil {
		return m.connectError
	}
	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockClient) Close(ctx context.Context) error {
	m.record("Close", "", nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closeError != nil {
		return m.closeError
	}
	m.connected = false
	return nil
}

// Health returns the configured health status.
func (m *MockClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthStatus
}

// Read records the call and returns the next queued result.
func (m *MockClient) Read(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.record("Read", cypher, params)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readError != nil {
		return QueryResult{}, m.readError
	}
	if len(m.readResults) == 0 {
		return QueryResult{}, nil
	}
	result := m.readResults[0]
	m.readResults = m.readResults[1:]
	return result, nil
}

// Write records the call.
func (m *MockClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.record("Write", cypher, params)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeError != nil {
		return QueryResult{}, m.writeError
	}
	return QueryResult{}, nil
}

// QueueReadResult queues a result to be returned by the next Read call.
func (m *MockClient) QueueReadResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, result)
}

// SetConnectError configures Connect to fail.
func (m *MockClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetReadError configures Read to fail.
func (m *MockClient) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readError = err
}

// SetWriteError configures Write to fail.
func (m *MockClient) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeError = err
}

// SetHealth configures the health status returned by Health.
func (m *MockClient) SetHealth(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// Calls returns a copy of all recorded calls in order.
func (m *MockClient) Calls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// WriteCalls returns only the recorded Write calls in order.
func (m *MockClient) WriteCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var writes []MockCall
	for _, c := range m.calls {
		if c.Method == "Write" {
			writes = append(writes, c)
		}
	}
	return writes
}

// Reset clears all recorded calls and queued results.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.readResults = nil
	m.readError = nil
	m.writeError = nil
}

func (m *MockClient) record(method, cypher string, params map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Cypher:    cypher,
		Params:    params,
		Timestamp: time.Now(),
	})
}
