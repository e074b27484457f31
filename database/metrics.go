package database

import "github.com/prometheus/client_golang/prometheus"

const namespace = "pointsdb"

type metrics struct {
	inserted     prometheus.Counter
	removed      prometheus.Counter
	rejected     *prometheus.CounterVec
	regionSearch prometheus.Counter
	nodesVisited prometheus.Counter
	points       prometheus.Gauge
	treeHeight   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_inserted_total",
			Help:      "Points inserted into both indexes.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_removed_total",
			Help:      "Points removed from both indexes.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Requests rejected by validation, by reason.",
		}, []string{"reason"}),
		regionSearch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_searches_total",
			Help:      "Region searches run against the quadtree.",
		}),
		nodesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quadtree_nodes_visited_total",
			Help:      "Quadtree nodes visited by region searches.",
		}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "points",
			Help:      "Points currently stored.",
		}),
		treeHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quadtree_height",
			Help:      "Depth of the deepest quadtree node.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.inserted, m.removed, m.rejected, m.regionSearch, m.nodesVisited, m.points, m.treeHeight)
	}
	return m
}

func (m *metrics) reject(err error) {
	m.rejected.WithLabelValues(reason(err)).Inc()
}

func reason(err error) string {
	switch err {
	case ErrInvalidName:
		return "invalid_name"
	case ErrOutOfBounds:
		return "out_of_bounds"
	case ErrInvalidRegion:
		return "invalid_region"
	case ErrNotFound:
		return "not_found"
	}
	return "other"
}
