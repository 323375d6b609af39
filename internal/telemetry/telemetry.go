// Package telemetry exports engine counters to Prometheus.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/body"
)

// Collector implements dynamo.Telemetry. It registers on its own registry so
// several engines in one process do not collide.
type Collector struct {
	registry *prometheus.Registry

	frameDuration prometheus.Histogram
	framesTotal   prometheus.Counter
	bodies        prometheus.Gauge
	simTime       prometheus.Gauge
	multiplier    prometheus.Gauge
	spawnsTotal   *prometheus.CounterVec
	removalsTotal *prometheus.CounterVec
	orbitsTotal   prometheus.Counter
	commandsTotal *prometheus.CounterVec
}

func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orbitsim_frame_duration_seconds",
				Help:    "Wall time spent computing one frame",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		framesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orbitsim_frames_total",
				Help: "Total number of frames advanced",
			},
		),
		bodies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbitsim_bodies",
				Help: "Live bodies after the last frame",
			},
		),
		simTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbitsim_sim_time_seconds",
				Help: "Simulated seconds elapsed",
			},
		),
		multiplier: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbitsim_warp_multiplier",
				Help: "Simulated seconds per wall second",
			},
		),
		spawnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_spawns_total",
				Help: "Total bodies spawned",
			},
			[]string{"kind"},
		),
		removalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_removals_total",
				Help: "Total bodies removed",
			},
			[]string{"reason"},
		),
		orbitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "orbitsim_orbit_refreshes_total",
				Help: "Total orbit predictions computed by the scheduler",
			},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitsim_commands_total",
				Help: "Client commands by op and outcome",
			},
			[]string{"op", "result"},
		),
	}

	m.registry.MustRegister(
		m.frameDuration,
		m.framesTotal,
		m.bodies,
		m.simTime,
		m.multiplier,
		m.spawnsTotal,
		m.removalsTotal,
		m.orbitsTotal,
		m.commandsTotal,
	)

	return m
}

func (m *Collector) FrameDone(elapsed time.Duration, bodies int, simTime, multiplier float64) {
	m.frameDuration.Observe(elapsed.Seconds())
	m.framesTotal.Inc()
	m.bodies.Set(float64(bodies))
	m.simTime.Set(simTime)
	m.multiplier.Set(multiplier)
}

func (m *Collector) Spawned(kind body.Kind) {
	m.spawnsTotal.WithLabelValues(kind.String()).Inc()
}

func (m *Collector) Removed(r body.Removal) {
	m.removalsTotal.WithLabelValues(r.Reason.String()).Inc()
}

func (m *Collector) OrbitsRefreshed(n int) {
	m.orbitsTotal.Add(float64(n))
}

// Command records one client command; result is "ok", "error" or "limited".
func (m *Collector) Command(op, result string) {
	m.commandsTotal.WithLabelValues(op, result).Inc()
}

func (m *Collector) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
