// Package metrics exposes container allocation counters for Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	listAppends       prometheus.Counter
	listReallocations prometheus.Counter
	listSlots         prometheus.Counter
	stringAllocs      prometheus.Counter
	stringBytes       prometheus.Counter
	faults            *prometheus.CounterVec
}

// New registers the kernel metrics with r. A nil registerer creates
// unregistered collectors.
func New(r prometheus.Registerer) *Metrics {
	return &Metrics{
		listAppends: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "able_kernel_list_appends_total",
			Help: "Total number of items appended to dynamic lists.",
		}),
		listReallocations: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "able_kernel_list_reallocations_total",
			Help: "Total number of dynamic list buffer reallocations.",
		}),
		listSlots: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "able_kernel_list_slots_allocated_total",
			Help: "Total number of list slots allocated across all reallocations.",
		}),
		stringAllocs: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "able_kernel_string_allocations_total",
			Help: "Total number of byte strings allocated.",
		}),
		stringBytes: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "able_kernel_string_bytes_allocated_total",
			Help: "Total number of bytes allocated for byte strings.",
		}),
		faults: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "able_kernel_faults_total",
			Help: "Total number of container misuse faults by kind.",
		}, []string{"kind"}),
	}
}

// ObserveAppend implements list.Observer.
func (m *Metrics) ObserveAppend() {
	if m == nil {
		return
	}
	m.listAppends.Inc()
}

// ObserveGrow implements list.Observer.
func (m *Metrics) ObserveGrow(_, newCap int) {
	if m == nil {
		return
	}
	m.listReallocations.Inc()
	m.listSlots.Add(float64(newCap))
}

func (m *Metrics) ObserveStringAlloc(size int) {
	if m == nil {
		return
	}
	m.stringAllocs.Inc()
	m.stringBytes.Add(float64(size))
}

// ObserveFault counts a fault of the given kind ("index", "allocation",
// "handle").
func (m *Metrics) ObserveFault(kind string) {
	if m == nil {
		return
	}
	m.faults.WithLabelValues(kind).Inc()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ListAppends       float64
	ListReallocations float64
	ListSlots         float64
	StringAllocations float64
	StringBytes       float64
}

// Snapshot reads the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		ListAppends:       counterValue(m.listAppends),
		ListReallocations: counterValue(m.listReallocations),
		ListSlots:         counterValue(m.listSlots),
		StringAllocations: counterValue(m.stringAllocs),
		StringBytes:       counterValue(m.stringBytes),
	}
}
