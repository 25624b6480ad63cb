package metrics

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder interface {
	ImportFinished(result string, inserted, ignored, skipped int, elapsed time.Duration)
	LoginAttempt(result string)
	StatisticsCache(result string)
}

type metrics struct {
	importsTotal   *prometheus.CounterVec
	importedRows   *prometheus.CounterVec
	importDuration prometheus.Histogram
	loginAttempts  *prometheus.CounterVec
	statsCache     *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		importsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "imports_total",
			Help:      "Nombre d'imports Excel traités, par résultat.",
		}, []string{"result"}),
		importedRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "import_rows_total",
			Help:      "Lignes de fichiers importés, par issue (inserted, ignored, skipped).",
		}, []string{"outcome"}),
		importDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "inventory",
			Name:      "import_duration_seconds",
			Help:      "Durée de traitement d'un fichier importé.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		loginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "login_attempts_total",
			Help:      "Tentatives de connexion, par résultat.",
		}, []string{"result"}),
		statsCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "statistics_cache_total",
			Help:      "Accès au cache des statistiques (hit, miss, error).",
		}, []string{"result"}),
	}
})

type prometheusRecorder struct {
	m *metrics
}

func NewPrometheusRecorder() Recorder {
	return &prometheusRecorder{m: metricsSingleton()}
}

func (r *prometheusRecorder) ImportFinished(result string, inserted, ignored, skipped int, elapsed time.Duration) {
	r.m.importsTotal.WithLabelValues(result).Inc()
	r.m.importedRows.WithLabelValues("inserted").Add(float64(inserted))
	r.m.importedRows.WithLabelValues("ignored").Add(float64(ignored))
	r.m.importedRows.WithLabelValues("skipped").Add(float64(skipped))
	r.m.importDuration.Observe(elapsed.Seconds())
}

func (r *prometheusRecorder) LoginAttempt(result string) {
	r.m.loginAttempts.WithLabelValues(result).Inc()
}

func (r *prometheusRecorder) StatisticsCache(result string) {
	r.m.statsCache.WithLabelValues(result).Inc()
}

type noopRecorder struct{}

// NewNoopRecorder sert quand les métriques sont désactivées, et dans les tests.
func NewNoopRecorder() Recorder { return noopRecorder{} }

func (noopRecorder) ImportFinished(string, int, int, int, time.Duration) {}
func (noopRecorder) LoginAttempt(string)                                 {}
func (noopRecorder) StatisticsCache(string)                              {}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
