package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_snapshots_created_total",
			Help: "Total revisions created, by revision type",
		},
		[]string{"type"},
	)

	restoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revision_restores_total",
			Help: "Total restore attempts, by result",
		},
		[]string{"result"},
	)

	revisionsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revision_autosaves_pruned_total",
			Help: "Total autosave revisions deleted by retention pruning",
		},
	)
)
