package bvh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const predicateKindLabel = "predicate_kind"

var (
	buildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvh_builds_total",
		Help: "The number of hierarchies constructed.",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "bvh_build_duration_seconds",
		Help: "The time taken to construct a hierarchy.",
	})

	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_queries_total",
		Help: "The number of batched queries run, by predicate kind.",
	}, []string{predicateKindLabel})

	queryMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvh_query_matches_total",
		Help: "The number of (query, primitive) matches produced, by predicate kind.",
	}, []string{predicateKindLabel})
)
