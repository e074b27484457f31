// Quadtrees are a 2-dimensional subdividing spatial representation. This
// package implements a PR (point region) quadtree over a fixed square world of
// integer coordinates, storing named points in bucket leaves.
//
// Leaves hold up to three points, or any number of points that all share a
// single location. A leaf that outgrows that rule is replaced by an internal
// node and its points are re-inserted one quadrant down. Removals collapse
// internal nodes back into a leaf once their children fit the same rule.

package pointsdb

// WorldSize is the side length of the square world. Valid coordinates satisfy
// 0 <= x, y < WorldSize.
const WorldSize = 1024

// Number of points a leaf holds before it must split, unless every point in it
// shares one location.
const leafCapacity = 3

// Tree is a PR quadtree spanning the whole world.
type Tree struct {
	// Root node. Every mutation stores the node returned by the callee, so
	// the root may change type across inserts and removes.
	root node
	// Number of points currently stored.
	size int
}

// New creates an empty Tree whose root is the shared empty node.
func New() *Tree {
	return &Tree{root: flyweight}
}

// InWorld reports whether (x, y) lies within the world bounds.
func InWorld(x, y int) bool {
	return x >= 0 && y >= 0 && x < WorldSize && y < WorldSize
}

// Len returns the number of points stored in the Tree.
func (t *Tree) Len() int {
	return t.size
}

// IsEmpty reports whether the Tree holds no points.
func (t *Tree) IsEmpty() bool {
	return t.root.isEmpty()
}

// Insert adds a point called name at (x, y). Returns false, leaving the Tree
// untouched, if the coordinate falls outside the world.
func (t *Tree) Insert(x, y int, name string) bool {
	if !InWorld(x, y) {
		return false
	}
	t.root = t.root.insert(NewPoint(name, x, y), world)
	t.size++
	return true
}

// Remove deletes one point located at (x, y) and returns it. The second result
// is false when the coordinate is outside the world or no point sits there.
func (t *Tree) Remove(x, y int) (Point, bool) {
	if !InWorld(x, y) {
		return Point{}, false
	}
	return t.removeAt(x, y, func(p Point) bool {
		return p.X == x && p.Y == y
	})
}

// RemovePoint deletes the point at p's location that also carries p's name.
// Unlike Remove it never takes a different point sharing the location.
func (t *Tree) RemovePoint(p Point) (Point, bool) {
	if !InWorld(p.X, p.Y) {
		return Point{}, false
	}
	return t.removeAt(p.X, p.Y, func(o Point) bool {
		return o.Equal(p) && o.Name == p.Name
	})
}

func (t *Tree) removeAt(x, y int, match func(Point) bool) (Point, bool) {
	n, removed, ok := t.root.remove(x, y, match, world)
	t.root = n
	if ok {
		t.size--
	}
	return removed, ok
}

// RemoveByName deletes the first point called name, probing quadrants in
// NW, NE, SW, SE order. A name says nothing about location, so every node
// may be visited.
func (t *Tree) RemoveByName(name string) (Point, bool) {
	n, removed, ok := t.root.removeByName(name, world)
	t.root = n
	if ok {
		t.size--
	}
	return removed, ok
}

// quad is the square region [x, x+size) x [y, y+size) a node covers.
type quad struct {
	x, y, size int
}

var world = quad{size: WorldSize}

// Bitwise operations on child indices are used to keep track of what quadrant
// each child occupies: bit 0 is the east half, bit 1 the south half. This gives
// the NW, NE, SW, SE ordering used for every traversal.
func hasBit(n int, pos uint) bool {
	val := n & (1 << pos)
	return (val > 0)
}

func setBit(n int, pos uint) int {
	n |= (1 << pos)
	return n
}

// quadrant returns the index of the child of q owning (x, y).
func (q quad) quadrant(x, y int) int {
	half := q.size / 2
	var target int
	if x >= q.x+half {
		target = setBit(target, 0)
	}
	if y >= q.y+half {
		target = setBit(target, 1)
	}
	return target
}

// child returns the region covered by child i of q.
func (q quad) child(i int) quad {
	half := q.size / 2
	c := quad{x: q.x, y: q.y, size: half}
	if hasBit(i, 0) {
		c.x += half
	}
	if hasBit(i, 1) {
		c.y += half
	}
	return c
}
