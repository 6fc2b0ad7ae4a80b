package sidemenu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	decisionImmediate = "immediate"
	decisionDelayed   = "delayed"
)

// activationsTotal — решения об активации строк при наведении.
var activationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ac_menu_activations_total",
		Help: "Решения hover-intent об активации строк бокового меню",
	},
	[]string{"decision"},
)
