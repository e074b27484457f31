// Package database keeps a set of named points indexed two ways: by location
// in a PR quadtree and by name in a skip list. Every request is validated
// before either index is touched, then applied to both.
package database

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"regexp"
	"slices"

	"github.com/rs/zerolog"

	"github.com/kushpatel225/pointsdb"
	"github.com/kushpatel225/pointsdb/skiplist"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidName reports whether name is a letter followed by any number of
// letters, digits and underscores.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Database owns the location and name indexes.
type Database struct {
	tree    *pointsdb.Tree
	names   *skiplist.SkipList[string, pointsdb.Point]
	log     zerolog.Logger
	metrics *metrics
}

// New creates an empty Database.
func New(opts ...Option) *Database {
	o := options{logger: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Database{
		tree:    pointsdb.New(),
		names:   skiplist.New[string](pointsdb.Point.Equal, o.coin),
		log:     o.logger,
		metrics: newMetrics(o.registerer),
	}
}

// Len returns the number of points stored.
func (d *Database) Len() int {
	return d.names.Len()
}

func (d *Database) reject(err error, ev *zerolog.Event) error {
	d.metrics.reject(err)
	ev.Err(err).Msg("request rejected")
	return err
}

func (d *Database) removed(p pointsdb.Point) {
	if _, ok := d.tree.RemovePoint(p); !ok {
		d.log.Error().Stringer("point", p).Msg("point missing from quadtree")
	}
	d.metrics.removed.Inc()
	d.metrics.points.Set(float64(d.names.Len()))
	d.log.Debug().Stringer("point", p).Msg("point removed")
}

// Insert stores the point called name at (x, y) in both indexes.
func (d *Database) Insert(name string, x, y int) (pointsdb.Point, error) {
	p := pointsdb.NewPoint(name, x, y)
	if !pointsdb.InWorld(x, y) {
		return p, d.reject(ErrOutOfBounds, d.log.Info().Str("op", "insert").Stringer("point", p))
	}
	if !ValidName(name) {
		return p, d.reject(ErrInvalidName, d.log.Info().Str("op", "insert").Stringer("point", p))
	}
	if err := d.names.Insert(skiplist.NewPair(name, p)); err != nil {
		return p, fmt.Errorf("insert %v: %w", p, err)
	}
	d.tree.Insert(x, y, name)
	d.metrics.inserted.Inc()
	d.metrics.points.Set(float64(d.names.Len()))
	d.log.Debug().Stringer("point", p).Msg("point inserted")
	return p, nil
}

// RemoveByName removes one point called name. When several share the name,
// the most recently inserted goes first.
func (d *Database) RemoveByName(name string) (pointsdb.Point, error) {
	if !ValidName(name) {
		return pointsdb.Point{}, d.reject(ErrInvalidName, d.log.Info().Str("op", "remove").Str("name", name))
	}
	pair := d.names.Remove(name)
	if pair == nil {
		return pointsdb.Point{}, d.reject(ErrNotFound, d.log.Debug().Str("op", "remove").Str("name", name))
	}
	d.removed(pair.Value)
	return pair.Value, nil
}

// RemoveAt removes one point located at (x, y).
func (d *Database) RemoveAt(x, y int) (pointsdb.Point, error) {
	if !pointsdb.InWorld(x, y) {
		return pointsdb.Point{}, d.reject(ErrOutOfBounds, d.log.Info().Str("op", "remove").Int("x", x).Int("y", y))
	}
	pair := d.names.RemoveByValue(pointsdb.NewPoint("", x, y))
	if pair == nil {
		return pointsdb.Point{}, d.reject(ErrNotFound, d.log.Debug().Str("op", "remove").Int("x", x).Int("y", y))
	}
	// The name index picks which point leaves; the quadtree drops that
	// same point, not merely any point at (x, y).
	d.removed(pair.Value)
	return pair.Value, nil
}

// RegionSearch returns the points within [x, x+w) x [y, y+h) and the number of
// quadtree nodes visited.
func (d *Database) RegionSearch(x, y, w, h int) ([]pointsdb.Point, int, error) {
	if w <= 0 || h <= 0 {
		return nil, 0, d.reject(ErrInvalidRegion, d.log.Info().Str("op", "regionsearch").
			Int("x", x).Int("y", y).Int("w", w).Int("h", h))
	}
	found, visited := d.tree.RegionSearch(x, y, w, h)
	d.metrics.regionSearch.Inc()
	d.metrics.nodesVisited.Add(float64(visited))
	d.log.Debug().Int("found", len(found)).Int("visited", visited).Msg("region searched")
	return found, visited, nil
}

// Duplicate is a group of points sharing one location.
type Duplicate struct {
	// Key is the "x,y" location.
	Key    string
	Points []pointsdb.Point
}

// Duplicates lists every location holding more than one point, ordered by key.
func (d *Database) Duplicates() []Duplicate {
	groups := d.tree.FindDuplicates()
	dups := make([]Duplicate, 0, len(groups))
	for _, k := range slices.Sorted(maps.Keys(groups)) {
		dups = append(dups, Duplicate{Key: k, Points: groups[k]})
	}
	return dups
}

// Search returns every point called name.
func (d *Database) Search(name string) ([]pointsdb.Point, error) {
	if !ValidName(name) {
		return nil, d.reject(ErrInvalidName, d.log.Info().Str("op", "search").Str("name", name))
	}
	pairs := d.names.Search(name)
	found := make([]pointsdb.Point, len(pairs))
	for i, pair := range pairs {
		found[i] = pair.Value
	}
	return found, nil
}

// Dump renders the skip list followed by the quadtree.
func (d *Database) Dump() string {
	tree, _ := d.tree.Dump()
	return d.names.Dump() + tree
}

// Points iterates over every point in name order.
func (d *Database) Points() iter.Seq[pointsdb.Point] {
	return func(yield func(pointsdb.Point) bool) {
		for pair := range d.names.All() {
			if !yield(pair.Value) {
				return
			}
		}
	}
}

// Stats reports the quadtree shape and refreshes the height gauge.
func (d *Database) Stats() pointsdb.Stats {
	s := d.tree.Stats()
	d.metrics.treeHeight.Set(float64(s.Height))
	return s
}

// IsRejection reports whether err is one of the validation or not-found
// outcomes, as opposed to an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrInvalidRegion) || errors.Is(err, ErrNotFound)
}
