package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyunjin-oh/coursechat/internal/followup"
	"github.com/hyunjin-oh/coursechat/models"
)

var (
	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coursechat_searches_total",
		Help: "Search calls by outcome.",
	}, []string{"outcome"})

	followupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coursechat_followups_total",
		Help: "Chat turns by follow-up subtype.",
	}, []string{"subtype"})
)

func init() {
	prometheus.MustRegister(searchesTotal, followupsTotal)
}

func observeSearch(results []models.SearchResult) {
	switch {
	case len(results) == 0:
		searchesTotal.WithLabelValues("empty").Inc()
	case len(results) == 1 && results[0].RelevanceScore == nil:
		searchesTotal.WithLabelValues("direct").Inc()
	default:
		searchesTotal.WithLabelValues("ranked").Inc()
	}
}

func observeResolution(res followup.Resolution) {
	if !res.IsFollowup {
		followupsTotal.WithLabelValues("none").Inc()
		return
	}
	followupsTotal.WithLabelValues(string(res.Subtype)).Inc()
}
