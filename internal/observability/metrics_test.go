package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200)
	m.RecordRequest("/tickets", "GET", 200)
	m.RecordError("/tickets/x", "GET", "NOT_FOUND")

	assert.Equal(t, int64(2), m.RequestCount("/tickets", "GET", 200))
	assert.Equal(t, int64(1), m.ErrorCount("/tickets/x", "GET", "NOT_FOUND"))
	assert.Zero(t, m.RequestCount("/tickets", "POST", 200))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/tickets", "GET", 200)
	m.RecordError("/tickets", "GET", "NOT_FOUND")
	assert.Zero(t, m.RequestCount("/tickets", "GET", 200))
}
