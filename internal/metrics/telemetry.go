package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/fieldlab/internal/sim"
)

// Recorder exports frame statistics as Prometheus metrics. It is a
// sim.Observer.
type Recorder struct {
	ticks         prometheus.Counter
	bounces       prometheus.Counter
	clamps        prometheus.Counter
	simTime       prometheus.Gauge
	probe         prometheus.Gauge
	kinetic       prometheus.Gauge
	particleSpeed prometheus.Histogram
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldlab_ticks_total",
			Help: "Total number of simulation ticks.",
		}),
		bounces: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldlab_bounces_total",
			Help: "Total number of particle boundary reflections.",
		}),
		clamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldlab_speed_clamps_total",
			Help: "Total number of particle speed clamps.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fieldlab_sim_time_seconds",
			Help: "Simulated time of the latest tick.",
		}),
		probe: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fieldlab_probe_amplitude",
			Help: "Wave amplitude at the probe point.",
		}),
		kinetic: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fieldlab_kinetic_energy",
			Help: "Total kinetic energy of the particles.",
		}),
		particleSpeed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldlab_particle_speed",
			Help:    "Particle speed in plane units per tick.",
			Buckets: prometheus.LinearBuckets(0, 1, 17),
		}),
	}
	for _, c := range []prometheus.Collector{r.ticks, r.bounces, r.clamps, r.simTime, r.probe, r.kinetic, r.particleSpeed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) OnFrame(f sim.Frame) {
	r.ticks.Inc()
	r.bounces.Add(float64(f.Stats.Bounces))
	r.clamps.Add(float64(f.Stats.Clamped))
	r.simTime.Set(f.Time)
	r.probe.Set(f.Probe)
	r.kinetic.Set(kinetic(f))
	for _, p := range f.Particles {
		r.particleSpeed.Observe(p.Speed())
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
