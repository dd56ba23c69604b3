package forum

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// voteToggles counts toggles by ledger and outcome.
	// Outcomes: "added", "removed", "race_removed", "error".
	voteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_vote_toggles_total",
		Help: "Vote toggles by ledger and outcome",
	}, []string{"ledger", "outcome"})

	droppedComments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_tree_dropped_comments_total",
		Help: "Comments left out of an assembled tree, by reason",
	}, []string{"reason"})

	treeBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forum_tree_build_duration_seconds",
		Help:    "Comment tree assembly duration",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	treeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forum_tree_nodes",
		Help:    "Comments per assembled tree",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})
)
