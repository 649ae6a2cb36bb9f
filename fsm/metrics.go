package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions. Labels stay low-cardinality: machine and state names
// come from closed enumerations, symbols are never used as labels.
var (
	// transitionsTotal counts resolved transitions by machine, from/to state and match kind.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of resolved transitions by machine, from_state, to_state and match (exact or any)",
	}, []string{"machine", "from_state", "to_state", "match"})

	// unhandledTransitionsTotal counts symbols that fell through to the default action.
	unhandledTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_unhandled_transitions_total",
		Help: "Total number of symbols with no exact or wildcard transition by machine and state",
	}, []string{"machine", "state"})

	// actionErrorsTotal counts transition actions that returned an error.
	actionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_action_errors_total",
		Help: "Total number of failed transition actions by machine, state and action",
	}, []string{"machine", "state", "action"})
)
