package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricTasksCreated, 1)
	m.Counter(MetricTasksCreated, 2)
	m.Counter(MetricHTTPRequests, 1, T("method", "GET"), T("status", "200"))
	m.Gauge("taskboard.tasks.total", 12)
	m.Histogram("taskboard.page.size", 10)
	m.Histogram("taskboard.page.size", 1)
	m.Timing(MetricOperationDuration, 5*time.Millisecond)

	assert.Equal(t, int64(3), m.GetCounter(MetricTasksCreated))
	assert.Equal(t, int64(1), m.GetCounter(MetricHTTPRequests, T("method", "GET"), T("status", "200")))
	assert.Equal(t, int64(0), m.GetCounter(MetricHTTPRequests, T("method", "POST"), T("status", "200")))
	assert.Equal(t, 12.0, m.GetGauge("taskboard.tasks.total"))
	assert.Equal(t, []float64{10, 1}, m.GetHistogram("taskboard.page.size"))
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, m.GetTimings(MetricOperationDuration))

	m.Reset()
	assert.Equal(t, int64(0), m.GetCounter(MetricTasksCreated))
	assert.Empty(t, m.GetTimings(MetricOperationDuration))
}

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.Counter(MetricTasksDeleted, 1)
		m.Gauge("g", 1)
		m.Histogram("h", 1)
		m.Timing("t", time.Second)
	})
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "name", formatKey("name", nil))
	assert.Equal(t, "name:a=1:b=2", formatKey("name", []Tag{T("a", "1"), T("b", "2")}))
}

func TestMetricNamesAreNamespaced(t *testing.T) {
	for _, name := range []string{
		MetricOperationTotal,
		MetricTasksListed,
		MetricTasksCreated,
		MetricTasksUpdated,
		MetricTasksDeleted,
		MetricTasksNotFound,
		MetricHTTPRequests,
		MetricMCPToolCalls,
		MetricEventsPublished,
		MetricEventsPublishFailed,
	} {
		assert.Regexp(t, `^taskboard\.`, name)
	}
}

func TestInMemoryMetrics_TagOrderDoesNotMatter(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter(MetricMCPToolCalls, 1, T("tool", "task.list"), T("outcome", "ok"))
	m.Counter(MetricMCPToolCalls, 1, T("outcome", "ok"), T("tool", "task.list"))

	assert.Equal(t, int64(2), m.GetCounter(MetricMCPToolCalls, T("tool", "task.list"), T("outcome", "ok")))
	assert.Equal(t, map[string]int64{
		"taskboard.mcp.tool_calls:outcome=ok:tool=task.list": 2,
	}, m.Counters())
}

func TestInMemoryMetrics_GettersReturnCopies(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Histogram("h", 1)

	got := m.GetHistogram("h")
	got[0] = 99
	assert.Equal(t, []float64{1}, m.GetHistogram("h"))
}
