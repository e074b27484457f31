package pointsdb

import (
	"slices"
	"strings"
)

// node is one position in the Tree. Mutating methods return the node that
// should take the callee's place in its parent; there are no parent pointers.
type node interface {
	insert(p Point, q quad) node
	// remove deletes the first point satisfying match on the single path
	// toward (x, y).
	remove(x, y int, match func(Point) bool, q quad) (node, Point, bool)
	removeByName(name string, q quad) (node, Point, bool)
	regionSearch(r rect, q quad, found []Point) ([]Point, int)
	findDuplicates(dups map[string][]Point)
	dump(sb *strings.Builder, level int, q quad) int
	isEmpty() bool
}

// emptyNode stands in for every position holding no points. It carries no
// state, so the single flyweight value is shared by all trees.
type emptyNode struct{}

var flyweight node = emptyNode{}

func (emptyNode) insert(p Point, _ quad) node {
	return &leafNode{points: []Point{p}}
}

func (emptyNode) remove(int, int, func(Point) bool, quad) (node, Point, bool) {
	return flyweight, Point{}, false
}

func (emptyNode) removeByName(string, quad) (node, Point, bool) {
	return flyweight, Point{}, false
}

func (emptyNode) isEmpty() bool {
	return true
}

// leafNode holds a bucket of points.
type leafNode struct {
	points []Point
}

func (l *leafNode) insert(p Point, q quad) node {
	if len(l.points) < leafCapacity || (sameLocation(l.points) && l.points[0].Equal(p)) {
		l.points = append(l.points, p)
		return l
	}
	// Over capacity with more than one location: split and push every point
	// one level down. Children split again as needed.
	var n node = newInternal()
	for _, old := range l.points {
		n = n.insert(old, q)
	}
	return n.insert(p, q)
}

func (l *leafNode) remove(_, _ int, match func(Point) bool, _ quad) (node, Point, bool) {
	return l.take(match)
}

func (l *leafNode) removeByName(name string, _ quad) (node, Point, bool) {
	return l.take(func(p Point) bool {
		return p.Name == name
	})
}

// take removes the first point satisfying match. An emptied leaf is replaced
// by the flyweight.
func (l *leafNode) take(match func(Point) bool) (node, Point, bool) {
	i := slices.IndexFunc(l.points, match)
	if i < 0 {
		return l, Point{}, false
	}
	removed := l.points[i]
	l.points = slices.Delete(l.points, i, i+1)
	if len(l.points) == 0 {
		return flyweight, removed, true
	}
	return l, removed, true
}

func (l *leafNode) isEmpty() bool {
	return len(l.points) == 0
}

// internalNode has exactly four children, indexed NW, NE, SW, SE.
type internalNode struct {
	children [4]node
}

func newInternal() *internalNode {
	return &internalNode{children: [4]node{flyweight, flyweight, flyweight, flyweight}}
}

func (in *internalNode) insert(p Point, q quad) node {
	i := q.quadrant(p.X, p.Y)
	in.children[i] = in.children[i].insert(p, q.child(i))
	return in
}

func (in *internalNode) remove(x, y int, match func(Point) bool, q quad) (node, Point, bool) {
	i := q.quadrant(x, y)
	child, removed, ok := in.children[i].remove(x, y, match, q.child(i))
	in.children[i] = child
	if !ok {
		return in, Point{}, false
	}
	return in.merge(), removed, true
}

func (in *internalNode) removeByName(name string, q quad) (node, Point, bool) {
	for i := range in.children {
		child, removed, ok := in.children[i].removeByName(name, q.child(i))
		in.children[i] = child
		if ok {
			return in.merge(), removed, true
		}
	}
	return in, Point{}, false
}

// merge collapses in into a single leaf when none of its children are
// internal and their points together satisfy the leaf rule.
func (in *internalNode) merge() node {
	var points []Point
	for _, c := range in.children {
		switch c := c.(type) {
		case *internalNode:
			return in
		case *leafNode:
			points = append(points, c.points...)
		}
	}
	if len(points) == 0 {
		return flyweight
	}
	if len(points) <= leafCapacity || sameLocation(points) {
		return &leafNode{points: points}
	}
	return in
}

func (in *internalNode) isEmpty() bool {
	return false
}

// sameLocation reports whether every point shares the first point's location.
func sameLocation(points []Point) bool {
	for _, p := range points[1:] {
		if !p.Equal(points[0]) {
			return false
		}
	}
	return true
}
