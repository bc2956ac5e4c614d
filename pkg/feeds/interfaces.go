package feeds

import "context"

// Record is one item returned by a content feed. Keys follow the backend's
// JSON field names.
type Record map[string]any

// String returns the string field at key or fallback.
func (r Record) String(key, fallback string) string {
	if v, ok := r[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Float returns the numeric field at key or fallback.
func (r Record) Float(key string, fallback float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Fetcher loads feed records for an endpoint path such as "/events".
type Fetcher interface {
	FetchRecords(ctx context.Context, endpoint string) ([]Record, error)
}
