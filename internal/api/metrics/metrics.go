// Package metrics defines and registers all custom Prometheus metrics for the
// rental portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default registry at package init; the /metrics
// endpoint and the echoprometheus middleware expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rental_portal"

// ── View fetch metrics ────────────────────────────────────────────────────────

// ViewFetchesTotal counts paginated fetches issued by the stateful views.
// Labels:
//   - view: "listing" or "inventory"
//   - result: "ok" or "error"
var ViewFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_fetches_total",
		Help:      "Total number of paginated view fetches, by view and result.",
	},
	[]string{"view", "result"},
)

// StaleResponsesDroppedTotal counts responses discarded because a newer fetch
// for the same view had already committed.
var StaleResponsesDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_dropped_total",
		Help:      "Superseded fetch responses dropped instead of committed.",
	},
	[]string{"view"},
)

// ── Rental metrics ────────────────────────────────────────────────────────────

// RentalsCreatedTotal counts rental creations that the fleet API accepted.
var RentalsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rentals_created_total",
		Help:      "Total number of rentals created through the portal.",
	},
)

// PaymentsTotal counts payment submissions.
// Labels:
//   - method: payment method id (e.g. "credit_card")
//   - result: "ok" or "error"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment submissions, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// CarDeletesTotal counts confirmed inventory deletes.
// Label:
//   - result: "ok" or "reconciled" (delete failed, page refetched)
var CarDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "car_deletes_total",
		Help:      "Total number of confirmed inventory deletes, by result.",
	},
	[]string{"result"},
)

// UploadBatchesTotal counts staged-upload submissions.
// Label:
//   - result: "ok", "error", or "rejected" (client-side validation)
var UploadBatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_batches_total",
		Help:      "Total number of image upload batch submissions, by result.",
	},
	[]string{"result"},
)

// StagedFilesGauge tracks the number of files currently held across all open
// upload staging areas.
var StagedFilesGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "staged_files",
		Help:      "Files currently staged for upload across all dialogs.",
	},
)
