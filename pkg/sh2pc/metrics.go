package sh2pc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine work for one party. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	AndGates           prometheus.Counter
	AndRounds          prometheus.Counter
	OpenedBits         prometheus.Counter
	Triples            prometheus.Counter
	ObliviousTransfers prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg. A nil reg
// leaves them unregistered. Every counter carries a constant role label so
// both parties of an in-process run can share one registry.
func NewMetrics(reg prometheus.Registerer, role Role) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"role": role.String()}
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace:   "sh2pc",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	return &Metrics{
		AndGates:           counter("and_gates_total", "AND gates evaluated on two secret operands."),
		AndRounds:          counter("and_rounds_total", "Message exchanges spent opening AND batches."),
		OpenedBits:         counter("opened_bits_total", "Secret bits opened by reveals."),
		Triples:            counter("triples_total", "Beaver triples generated."),
		ObliviousTransfers: counter("oblivious_transfers_total", "Base oblivious transfers run as sender or receiver."),
	}
}

func (m *Metrics) addAnd(gates int) {
	if m == nil {
		return
	}
	m.AndGates.Add(float64(gates))
	m.AndRounds.Inc()
}

func (m *Metrics) addOpened(bits int) {
	if m == nil {
		return
	}
	m.OpenedBits.Add(float64(bits))
}

func (m *Metrics) addTriples(n int) {
	if m == nil {
		return
	}
	m.Triples.Add(float64(n))
}

func (m *Metrics) addOT(n int) {
	if m == nil {
		return
	}
	m.ObliviousTransfers.Add(float64(n))
}
