package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe_robot"

// Detection stages reported by DetectionMisses.
const (
	StageGrid   = "grid"
	StagePieces = "pieces"
	StageBoard  = "board"
)

type Metrics struct {
	Frames          prometheus.Counter
	DetectionMisses *prometheus.CounterVec
	Commands        *prometheus.CounterVec
	Cheats          prometheus.Counter
	Moves           prometheus.Counter
	Outcomes        *prometheus.CounterVec
	Faults          prometheus.Counter
}

// New - creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	that := &Metrics{
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames processed by the control loop.",
		}),
		DetectionMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detection_misses_total",
			Help:      "Cycles where a detection stage found nothing.",
		}, []string{"stage"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands decoded from the controller.",
		}, []string{"command"}),
		Cheats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cheats_total",
			Help:      "Relocations of robot pieces reported to the controller.",
		}),
		Moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Moves sent to the controller.",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Finished games by outcome.",
		}, []string{"outcome"}),
		Faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Failed loop iterations.",
		}),
	}

	reg.MustRegister(
		that.Frames,
		that.DetectionMisses,
		that.Commands,
		that.Cheats,
		that.Moves,
		that.Outcomes,
		that.Faults,
	)

	return that
}
