// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sectionLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_session_section_loads_total",
		Help: "Client section loads by section and outcome (ok, partial, failed)",
	}, []string{"section", "result"})

	modalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dramahub_session_transitions_total",
		Help: "Detail/player state machine transitions by event and outcome",
	}, []string{"event", "result"})
)

// RecordSectionLoad counts a section load attempt.
func RecordSectionLoad(section, result string) {
	sectionLoads.WithLabelValues(section, result).Inc()
}

// RecordTransition counts a detail/player state machine event.
func RecordTransition(event, result string) {
	modalTransitions.WithLabelValues(event, result).Inc()
}
