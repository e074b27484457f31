package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/kushpatel225/pointsdb/skiplist"
)

type options struct {
	logger     zerolog.Logger
	coin       skiplist.Coin
	registerer prometheus.Registerer
}

// Option configures a Database.
type Option func(*options)

// WithLogger sets the logger mutations and rejections are reported to. The
// default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCoin sets the coin the name index draws node levels from. Tests pass a
// skiplist.Sequence to pin the index shape.
func WithCoin(c skiplist.Coin) Option {
	return func(o *options) {
		o.coin = c
	}
}

// WithRegisterer registers the database metrics with r. Without it the
// metrics are still kept but not exported.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}
