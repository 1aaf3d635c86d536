package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	monetaControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneta_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	monetaControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneta_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	amountProviderPhaseTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneta_amountprovider_phase_transitions_total",
			Help: "Number of AmountProvider status phase changes by target phase.",
		},
		[]string{"phase"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		monetaControllerReconcileTotal,
		monetaControllerReconcileErrorTotal,
		amountProviderPhaseTransitionsTotal,
	)
}
