package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relief_requests_created_total",
		Help: "Total number of aid requests created.",
	})

	RequestsAssignedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relief_requests_assigned_total",
		Help: "Total number of aid requests assigned to a volunteer.",
	})

	RequestsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relief_requests_delivered_total",
		Help: "Total number of aid requests confirmed as delivered.",
	})

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_transitions_rejected_total",
		Help: "Lifecycle transitions rejected because the request was in the wrong state.",
	},
		[]string{"action"},
	)

	AlertsBroadcastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_alerts_broadcast_total",
		Help: "Total number of disaster alerts broadcast.",
	},
		[]string{"type"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relief_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ItemDemand = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "relief_item_demand",
		Help: "Outstanding requests listing the item kind, as of the last shortage check.",
	},
		[]string{"item"},
	)

	ItemShortage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "relief_item_shortage",
		Help: "Outstanding demand not covered by stock, as of the last shortage check.",
	},
		[]string{"item"},
	)
)
