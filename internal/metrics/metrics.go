// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ShareTransitionsTotal counts share request transitions: created, accepted, rejected.
	ShareTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourmate_share_transitions_total",
			Help: "Total number of calendar share request transitions",
		},
		[]string{"transition"},
	)

	// SharedEventCopiesTotal counts events copied into a calendar on accept,
	// split by whether an existing duplicate was reused.
	SharedEventCopiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourmate_shared_event_copies_total",
			Help: "Total number of accepted shares by copy outcome",
		},
		[]string{"outcome"},
	)

	RecommendRankingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourmate_recommend_rankings_total",
			Help: "Total number of preference rankings computed",
		},
	)

	RecommendExplainTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourmate_recommend_explain_total",
			Help: "Total number of score explanations by result",
		},
		[]string{"result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourmate_notifications_total",
			Help: "Total number of notification events by type and result",
		},
		[]string{"type", "result"},
	)

	// PlacesImportedTotal counts catalog import records by result: imported, skipped.
	PlacesImportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourmate_places_imported_total",
			Help: "Total number of catalog import records by result",
		},
		[]string{"result"},
	)
)

// Share transition labels.
const (
	TransitionCreated  = "created"
	TransitionAccepted = "accepted"
	TransitionRejected = "rejected"
)

// Notification result labels.
const (
	ResultPublished     = "published"
	ResultPublishFailed = "publish_failed"
	ResultDelivered     = "delivered"
	ResultStoreFailed   = "store_failed"
)

func RecordShareTransition(transition string) {
	ShareTransitionsTotal.WithLabelValues(transition).Inc()
}

func RecordSharedCopy(reused bool) {
	outcome := "inserted"
	if reused {
		outcome = "reused"
	}
	SharedEventCopiesTotal.WithLabelValues(outcome).Inc()
}

func RecordRanking() {
	RecommendRankingsTotal.Inc()
}

func RecordExplain(recommended bool) {
	result := "not_recommended"
	if recommended {
		result = "recommended"
	}
	RecommendExplainTotal.WithLabelValues(result).Inc()
}

func RecordNotification(typ, result string) {
	NotificationsTotal.WithLabelValues(typ, result).Inc()
}

func RecordPlaceImport(imported bool) {
	result := "skipped"
	if imported {
		result = "imported"
	}
	PlacesImportedTotal.WithLabelValues(result).Inc()
}
