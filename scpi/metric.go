package scpi

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// CommandMetrics contains the counters of a command channel.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type CommandMetrics struct {
	// CommandCount indicates the number of commands sent.
	CommandCount atomic.Uint64
	// QueryCount indicates the number of queries sent.
	QueryCount atomic.Uint64
	// ErrCount indicates the number of failed exchanges.
	ErrCount atomic.Uint64

	headers *xsync.MapOf[string, *xsync.Counter]
}

func newCommandMetrics() *CommandMetrics {
	return &CommandMetrics{
		headers: xsync.NewMapOf[string, *xsync.Counter](),
	}
}

func (m *CommandMetrics) observe(cmd string) {
	m.CommandCount.Add(1)
	if IsQuery(cmd) {
		m.QueryCount.Add(1)
	}

	header := Header(cmd)
	if header == "" {
		return
	}
	counter, _ := m.headers.LoadOrCompute(header, xsync.NewCounter)
	counter.Inc()
}

func (m *CommandMetrics) incErrCount() {
	m.ErrCount.Add(1)
}

// HeaderCount returns how many commands were sent with the given index-free header,
// e.g. "TSCO:INPO:FIR:LINK".
func (m *CommandMetrics) HeaderCount(header string) int64 {
	counter, ok := m.headers.Load(header)
	if !ok {
		return 0
	}

	return counter.Value()
}

// Headers returns a snapshot of the per-header counters.
func (m *CommandMetrics) Headers() map[string]int64 {
	snapshot := make(map[string]int64, m.headers.Size())
	m.headers.Range(func(header string, counter *xsync.Counter) bool {
		snapshot[header] = counter.Value()
		return true
	})

	return snapshot
}
