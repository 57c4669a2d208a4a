package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges, histograms and timings for taskboard
// operations. Implementations must be safe for concurrent use.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric series.
type Tag struct {
	Key   string
	Value string
}

// T is shorthand for Tag{Key: key, Value: value}.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything. It is the default when no collector is configured.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// series holds every value recorded under one name and tag set.
type series struct {
	count   int64
	gauge   float64
	samples []float64
	timings []time.Duration
}

// InMemoryMetrics keeps all series in process. Tests and the dev server use it.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[string]*series
}

// NewInMemoryMetrics returns an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[string]*series)}
}

func (m *InMemoryMetrics) record(name string, tags []Tag, fn func(*series)) {
	key := formatKey(name, tags)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.series[key]
	if !ok {
		s = &series{}
		m.series[key] = s
	}
	fn(s)
}

func (m *InMemoryMetrics) lookup(name string, tags []Tag) (series, bool) {
	key := formatKey(name, tags)

	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[key]
	if !ok {
		return series{}, false
	}
	return series{
		count:   s.count,
		gauge:   s.gauge,
		samples: slices.Clone(s.samples),
		timings: slices.Clone(s.timings),
	}, true
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.count += value })
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.gauge = value })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.samples = append(s.samples, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.record(name, tags, func(s *series) { s.timings = append(s.timings, duration) })
}

// GetCounter returns the counter total for name and tags.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	s, _ := m.lookup(name, tags)
	return s.count
}

// GetGauge returns the last value set for the gauge.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	s, _ := m.lookup(name, tags)
	return s.gauge
}

// GetHistogram returns a copy of the recorded samples, oldest first.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	s, _ := m.lookup(name, tags)
	return s.samples
}

// GetTimings returns a copy of the recorded durations, oldest first.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	s, _ := m.lookup(name, tags)
	return s.timings
}

// Counters returns every counter series keyed by its formatted key.
func (m *InMemoryMetrics) Counters() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64)
	for key, s := range m.series {
		if s.count != 0 {
			out[key] = s.count
		}
	}
	return out
}

// Reset drops all series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	m.series = make(map[string]*series)
	m.mu.Unlock()
}

// formatKey renders name and tags as "name:k1=v1:k2=v2", tags sorted by key,
// so the same tag set always addresses the same series.
func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	for _, t := range sorted {
		b.WriteByte(':')
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	return b.String()
}

// Metric names.
const (
	MetricOperationTotal    = "taskboard.operation.total"
	MetricOperationDuration = "taskboard.operation.duration"
	MetricOperationErrors   = "taskboard.operation.errors"

	MetricTasksListed   = "taskboard.tasks.listed"
	MetricTasksCreated  = "taskboard.tasks.created"
	MetricTasksUpdated  = "taskboard.tasks.updated"
	MetricTasksDeleted  = "taskboard.tasks.deleted"
	MetricTasksNotFound = "taskboard.tasks.not_found"

	MetricHTTPRequests        = "taskboard.http.requests"
	MetricHTTPRequestDuration = "taskboard.http.request_duration"

	MetricMCPToolCalls = "taskboard.mcp.tool_calls"

	MetricEventsPublished     = "taskboard.events.published"
	MetricEventsPublishFailed = "taskboard.events.publish_failed"
)
