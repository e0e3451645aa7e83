package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// itemSubmissionsTotal counts add/edit submissions by entry point and
	// terminal state (rejected or persisted).
	itemSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_submissions_total",
			Help: "Item form and API submissions by outcome",
		},
		[]string{"route", "outcome"},
	)

	// itemValidationErrorsTotal counts individual rejected constraints.
	itemValidationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_validation_errors_total",
			Help: "Validation and binding errors reported for item submissions",
		},
		[]string{"field", "code"},
	)
)
