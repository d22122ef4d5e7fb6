// Package metrics instruments a gpio.Provider with Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/clambin/ledblink/internal/gpio"
	"github.com/prometheus/client_golang/prometheus"
)

var _ gpio.Provider = &Provider{}
var _ prometheus.Collector = &Provider{}

// Provider wraps a gpio.Provider and records opens, writes and errors of the lines it hands out
type Provider struct {
	gpio.Provider
	writes    *prometheus.CounterVec
	errors    *prometheus.CounterVec
	linesOpen prometheus.Gauge
}

func NewProvider(provider gpio.Provider) *Provider {
	return &Provider{
		Provider: provider,
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "ledblink_gpio_writes_total",
				Help:        "Number of levels written to a line",
				ConstLabels: prometheus.Labels{"driver": provider.Name()},
			},
			[]string{"pin", "level"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "ledblink_gpio_errors_total",
				Help:        "Number of failed line operations",
				ConstLabels: prometheus.Labels{"driver": provider.Name()},
			},
			[]string{"pin", "operation"},
		),
		linesOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ledblink_gpio_lines_open",
			Help:        "Number of lines currently acquired",
			ConstLabels: prometheus.Labels{"driver": provider.Name()},
		}),
	}
}

func (p *Provider) Open(pin int) (gpio.Line, error) {
	pinLabel := strconv.Itoa(pin)
	line, err := p.Provider.Open(pin)
	if err != nil {
		p.errors.WithLabelValues(pinLabel, "open").Inc()
		return nil, err
	}
	p.linesOpen.Inc()
	return &instrumentedLine{Line: line, pin: pinLabel, provider: p}, nil
}

func (p *Provider) Describe(ch chan<- *prometheus.Desc) {
	p.writes.Describe(ch)
	p.errors.Describe(ch)
	p.linesOpen.Describe(ch)
}

func (p *Provider) Collect(ch chan<- prometheus.Metric) {
	p.writes.Collect(ch)
	p.errors.Collect(ch)
	p.linesOpen.Collect(ch)
}

type instrumentedLine struct {
	gpio.Line
	pin      string
	provider *Provider
	closed   bool
}

func (l *instrumentedLine) Write(level gpio.Level) error {
	err := l.Line.Write(level)
	if err != nil {
		l.provider.errors.WithLabelValues(l.pin, "write").Inc()
		return err
	}
	l.provider.writes.WithLabelValues(l.pin, level.String()).Inc()
	return nil
}

func (l *instrumentedLine) Close() error {
	err := l.Line.Close()
	if err != nil {
		l.provider.errors.WithLabelValues(l.pin, "close").Inc()
	}
	if !l.closed {
		l.closed = true
		l.provider.linesOpen.Dec()
	}
	return err
}
