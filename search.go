package pointsdb

import (
	"strconv"
	"strings"

	"github.com/cznic/mathutil"
)

// rect is a half-open query rectangle [x, x+w) x [y, y+h).
type rect struct {
	x, y, w, h int
}

// intersects reports whether r and q overlap. Both are half-open, so sharing
// only an edge is not an overlap.
func (r rect) intersects(q quad) bool {
	return mathutil.Max(r.x, q.x) < mathutil.Min(r.x+r.w, q.x+q.size) &&
		mathutil.Max(r.y, q.y) < mathutil.Min(r.y+r.h, q.y+q.size)
}

func (r rect) contains(p Point) bool {
	return p.X >= r.x && p.X < r.x+r.w && p.Y >= r.y && p.Y < r.y+r.h
}

// clip narrows the half-open span [lo, lo+n) to the world, returning its
// bounds. n must be positive. lo+n is only formed when it cannot overflow.
func clip(lo, n int) (a, b int) {
	if lo >= WorldSize {
		return 0, 0
	}
	a, b = mathutil.Max(lo, 0), WorldSize
	switch {
	case lo < 0:
		b = mathutil.Min(lo+n, WorldSize)
	case n < WorldSize-lo:
		b = lo + n
	}
	return a, b
}

// RegionSearch finds all Points falling within [x, x+w) x [y, y+h), along with
// the number of nodes whose region intersects the rectangle. A rectangle with
// a non-positive side matches nothing and visits nothing.
func (t *Tree) RegionSearch(x, y, w, h int) (points []Point, visited int) {
	if w <= 0 || h <= 0 {
		return nil, 0
	}
	// Clipped to the world, so no corner arithmetic can overflow.
	x0, x1 := clip(x, w)
	y0, y1 := clip(y, h)
	if x1 <= x0 || y1 <= y0 {
		return nil, 0
	}
	return t.root.regionSearch(rect{x: x0, y: y0, w: x1 - x0, h: y1 - y0}, world, nil)
}

func (emptyNode) regionSearch(r rect, q quad, found []Point) ([]Point, int) {
	if !r.intersects(q) {
		return found, 0
	}
	return found, 1
}

func (l *leafNode) regionSearch(r rect, q quad, found []Point) ([]Point, int) {
	if !r.intersects(q) {
		return found, 0
	}
	for _, p := range l.points {
		if r.contains(p) {
			found = append(found, p)
		}
	}
	return found, 1
}

func (in *internalNode) regionSearch(r rect, q quad, found []Point) ([]Point, int) {
	if !r.intersects(q) {
		return found, 0
	}
	// Every child is probed; each one's own overlap test decides whether it
	// counts and whether its subtree is descended.
	visited := 1
	for i, c := range in.children {
		var n int
		found, n = c.regionSearch(r, q.child(i), found)
		visited += n
	}
	return found, visited
}

// FindDuplicates returns every group of two or more points sharing a location,
// keyed by the "x,y" coordinate. Such a group always lives in a single leaf.
func (t *Tree) FindDuplicates() map[string][]Point {
	dups := make(map[string][]Point)
	t.root.findDuplicates(dups)
	return dups
}

func (emptyNode) findDuplicates(map[string][]Point) {}

func (l *leafNode) findDuplicates(dups map[string][]Point) {
	local := make(map[string][]Point)
	for _, p := range l.points {
		local[p.Key()] = append(local[p.Key()], p)
	}
	for k, group := range local {
		if len(group) > 1 {
			dups[k] = group
		}
	}
}

func (in *internalNode) findDuplicates(dups map[string][]Point) {
	for _, c := range in.children {
		c.findDuplicates(dups)
	}
}

// Dump renders every node in pre-order (NW, NE, SW, SE), indenting two spaces
// per level, and returns the text with the number of nodes printed.
func (t *Tree) Dump() (string, int) {
	var sb strings.Builder
	sb.WriteString("QuadTree dump:\n")
	n := t.root.dump(&sb, 0, world)
	sb.WriteString(strconv.Itoa(n))
	sb.WriteString(" quadtree nodes printed\n")
	return sb.String(), n
}

func writeNodeHeader(sb *strings.Builder, level int, q quad) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString("Node at ")
	sb.WriteString(strconv.Itoa(q.x))
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(q.y))
	sb.WriteString(", ")
	sb.WriteString(strconv.Itoa(q.size))
	sb.WriteString(":")
}

func (emptyNode) dump(sb *strings.Builder, level int, q quad) int {
	writeNodeHeader(sb, level, q)
	sb.WriteString(" Empty\n")
	return 1
}

func (l *leafNode) dump(sb *strings.Builder, level int, q quad) int {
	writeNodeHeader(sb, level, q)
	sb.WriteString("\n")
	indent := strings.Repeat("  ", level+1)
	for _, p := range l.points {
		sb.WriteString(indent)
		sb.WriteString(p.String())
		sb.WriteString("\n")
	}
	return 1
}

func (in *internalNode) dump(sb *strings.Builder, level int, q quad) int {
	writeNodeHeader(sb, level, q)
	sb.WriteString(" Internal\n")
	printed := 1
	for i, c := range in.children {
		printed += c.dump(sb, level+1, q.child(i))
	}
	return printed
}

// Stats summarizes the shape of a Tree.
type Stats struct {
	Nodes, Empty, Leaves, Internal int
	Points                         int
	// Height is the depth of the deepest node; a lone root has height 0.
	Height int
}

// Stats walks every node and counts it by kind.
func (t *Tree) Stats() Stats {
	var s Stats
	t.walk(func(n node, depth int) {
		s.Nodes++
		s.Height = mathutil.Max(s.Height, depth)
		switch n := n.(type) {
		case emptyNode:
			s.Empty++
		case *leafNode:
			s.Leaves++
			s.Points += len(n.points)
		case *internalNode:
			s.Internal++
		}
	})
	return s
}

// walk runs function f on every node in the tree, in pre-order, along with
// the node's depth below the root.
func (t *Tree) walk(f func(n node, depth int)) {
	walkNode(t.root, 0, f)
}

func walkNode(n node, depth int, f func(n node, depth int)) {
	f(n, depth)
	if in, ok := n.(*internalNode); ok {
		for _, c := range in.children {
			walkNode(c, depth+1, f)
		}
	}
}
