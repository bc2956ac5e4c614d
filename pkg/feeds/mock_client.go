package feeds

import (
	"context"
	"fmt"
	"sync"
)

// MockClient serves fixed records per endpoint for tests and local demos.
type MockClient struct {
	mu     sync.RWMutex
	data   map[string][]Record
	errs   map[string]error
	called map[string]int
}

var _ Fetcher = (*MockClient)(nil)

// NewMockClient builds a mock seeded with endpoint fixtures.
func NewMockClient(data map[string][]Record) *MockClient {
	m := &MockClient{
		data:   map[string][]Record{},
		errs:   map[string]error{},
		called: map[string]int{},
	}
	for endpoint, records := range data {
		m.data[endpoint] = cloneRecords(records)
	}
	return m
}

// Fail makes endpoint return err until cleared with a nil error.
func (m *MockClient) Fail(endpoint string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, endpoint)
		return
	}
	m.errs[endpoint] = err
}

// Calls reports how many times endpoint was fetched.
func (m *MockClient) Calls(endpoint string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.called[endpoint]
}

// FetchRecords returns the fixture for endpoint.
func (m *MockClient) FetchRecords(_ context.Context, endpoint string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called[endpoint]++
	if err := m.errs[endpoint]; err != nil {
		return nil, err
	}
	records, ok := m.data[endpoint]
	if !ok {
		return nil, fmt.Errorf("feeds: no fixture for %s", endpoint)
	}
	return cloneRecords(records), nil
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		copyRec := make(Record, len(r))
		for k, v := range r {
			copyRec[k] = v
		}
		out[i] = copyRec
	}
	return out
}
