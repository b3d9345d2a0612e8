// Package metrics expõe os contadores Prometheus do motor de derivação
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DerivationRuns conta as execuções do ciclo de derivação por gatilho
	DerivationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "customer_success",
		Subsystem: "derivation",
		Name:      "runs_total",
		Help:      "Execuções do ciclo de derivação, particionadas por gatilho",
	}, []string{"trigger"})

	// DerivationChanges conta os ciclos que alteraram o cache derivado
	DerivationChanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "customer_success",
		Subsystem: "derivation",
		Name:      "changes_total",
		Help:      "Ciclos de derivação que produziram mudança estrutural nas contas",
	})

	// DerivationDuration mede a duração do ciclo completo de derivação
	DerivationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "customer_success",
		Subsystem: "derivation",
		Name:      "duration_seconds",
		Help:      "Duração do ciclo de derivação em segundos",
		Buckets:   prometheus.DefBuckets,
	})

	// ActiveNotifications registra o tamanho da última lista de notificações
	ActiveNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "customer_success",
		Subsystem: "notifications",
		Name:      "active",
		Help:      "Notificações derivadas na última computação",
	})

	// ImportedRecords conta registros aceitos por tipo de importação
	ImportedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "customer_success",
		Subsystem: "imports",
		Name:      "records_total",
		Help:      "Registros aceitos pelas importações em lote, por tipo",
	}, []string{"kind"})

	// SkippedImportRows conta linhas descartadas nas importações em lote
	SkippedImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "customer_success",
		Subsystem: "imports",
		Name:      "skipped_rows_total",
		Help:      "Linhas descartadas nas importações em lote, por tipo",
	}, []string{"kind"})
)
