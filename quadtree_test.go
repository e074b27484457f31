package pointsdb

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/cznic/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTree fails t if any node breaks the decomposition rule or holds a point
// outside its region.
func checkTree(t *testing.T, tree *Tree) {
	t.Helper()
	n := checkNode(t, tree.root, world)
	require.Equal(t, tree.Len(), n, "point count")
	require.Equal(t, n == 0, tree.IsEmpty())
}

func checkNode(t *testing.T, n node, q quad) int {
	t.Helper()
	switch n := n.(type) {
	case emptyNode:
		return 0
	case *leafNode:
		require.NotEmpty(t, n.points, "leaf at %v holds no points", q)
		if len(n.points) > leafCapacity {
			require.True(t, sameLocation(n.points), "leaf at %v overflows with distinct locations: %v", q, n.points)
		}
		for _, p := range n.points {
			require.True(t, p.X >= q.x && p.X < q.x+q.size && p.Y >= q.y && p.Y < q.y+q.size,
				"point %v outside %v", p, q)
		}
		return len(n.points)
	case *internalNode:
		require.Greater(t, q.size, 1, "internal node at unit size")
		var (
			total    int
			points   []Point
			internal bool
		)
		for i, c := range n.children {
			total += checkNode(t, c, q.child(i))
			switch c := c.(type) {
			case *internalNode:
				internal = true
			case *leafNode:
				points = append(points, c.points...)
			}
		}
		if !internal {
			require.NotEmpty(t, points, "internal node at %v has only empty children", q)
			require.False(t, len(points) <= leafCapacity || sameLocation(points),
				"internal node at %v should have merged: %v", q, points)
		}
		return total
	}
	t.Fatalf("unknown node type %T", n)
	return 0
}

func TestNew(t *testing.T) {
	tree := New()
	if !tree.IsEmpty() {
		t.Fatal("new tree is not empty")
	}
	if tree.root != flyweight {
		t.Fatal("new tree root is not the shared empty node")
	}
	checkTree(t, tree)
}

func TestInsertRejectsOutsideWorld(t *testing.T) {
	tree := New()
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {WorldSize, 0}, {0, WorldSize}, {-5, 2000}} {
		assert.False(t, tree.Insert(c[0], c[1], "p"), "insert at %v", c)
	}
	assert.True(t, tree.IsEmpty())
	assert.True(t, tree.Insert(0, 0, "origin"))
	assert.True(t, tree.Insert(WorldSize-1, WorldSize-1, "corner"))
	require.Equal(t, 2, tree.Len())
	checkTree(t, tree)
}

func TestLeafHoldsThree(t *testing.T) {
	tree := New()
	tree.Insert(1, 1, "a")
	tree.Insert(2, 2, "b")
	tree.Insert(3, 3, "c")
	leaf, ok := tree.root.(*leafNode)
	require.True(t, ok, "root is %T", tree.root)
	require.Len(t, leaf.points, 3)
	checkTree(t, tree)
}

func TestSplitOnFourthLocation(t *testing.T) {
	tree := New()
	tree.Insert(10, 10, "a")
	tree.Insert(600, 10, "b")
	tree.Insert(10, 600, "c")
	tree.Insert(600, 600, "d")
	in, ok := tree.root.(*internalNode)
	require.True(t, ok, "root is %T", tree.root)
	for i, want := range []string{"a", "b", "c", "d"} {
		leaf, ok := in.children[i].(*leafNode)
		require.True(t, ok, "child %d is %T", i, in.children[i])
		require.Equal(t, want, leaf.points[0].Name)
	}
	checkTree(t, tree)
}

func TestSplitCascades(t *testing.T) {
	tree := New()
	// All four land in the NW quadrant of the NW quadrant.
	tree.Insert(1, 1, "a")
	tree.Insert(2, 1, "b")
	tree.Insert(1, 2, "c")
	tree.Insert(200, 200, "d")
	checkTree(t, tree)
	require.Greater(t, tree.Stats().Height, 1)
}

func TestStackedLeafNeverSplits(t *testing.T) {
	tree := New()
	for i := 0; i < 10; i++ {
		tree.Insert(50, 50, "p"+strconv.Itoa(i))
	}
	leaf, ok := tree.root.(*leafNode)
	require.True(t, ok, "root is %T", tree.root)
	require.Len(t, leaf.points, 10)
	checkTree(t, tree)

	// A different location forces the stack down a level.
	tree.Insert(900, 900, "other")
	_, ok = tree.root.(*internalNode)
	require.True(t, ok)
	checkTree(t, tree)

	// Removing it merges the stack back into one leaf.
	removed, ok := tree.Remove(900, 900)
	require.True(t, ok)
	require.Equal(t, "other", removed.Name)
	_, ok = tree.root.(*leafNode)
	require.True(t, ok, "root is %T", tree.root)
	checkTree(t, tree)
}

func TestRemoveMergesToLeaf(t *testing.T) {
	tree := New()
	tree.Insert(10, 10, "a")
	tree.Insert(600, 10, "b")
	tree.Insert(10, 600, "c")
	tree.Insert(600, 600, "d")

	p, ok := tree.Remove(600, 600)
	require.True(t, ok)
	require.Equal(t, NewPoint("d", 600, 600), p)
	leaf, ok := tree.root.(*leafNode)
	require.True(t, ok, "root is %T", tree.root)
	require.Len(t, leaf.points, 3)
	checkTree(t, tree)

	for _, c := range [][2]int{{10, 10}, {600, 10}, {10, 600}} {
		_, ok := tree.Remove(c[0], c[1])
		require.True(t, ok)
	}
	require.True(t, tree.root == flyweight, "root is %T", tree.root)
	checkTree(t, tree)
}

func TestRemoveMisses(t *testing.T) {
	tree := New()
	_, ok := tree.Remove(5, 5)
	require.False(t, ok)
	_, ok = tree.Remove(-1, 5)
	require.False(t, ok)
	tree.Insert(5, 5, "a")
	_, ok = tree.Remove(5, 6)
	require.False(t, ok)
	_, ok = tree.Remove(5, WorldSize)
	require.False(t, ok)
	require.Equal(t, 1, tree.Len())
	checkTree(t, tree)
}

func TestRemovePointMatchesName(t *testing.T) {
	tree := New()
	tree.Insert(7, 7, "a")
	tree.Insert(7, 7, "b")
	_, ok := tree.RemovePoint(NewPoint("c", 7, 7))
	require.False(t, ok)
	p, ok := tree.RemovePoint(NewPoint("b", 7, 7))
	require.True(t, ok)
	require.Equal(t, "b", p.Name)
	p, ok = tree.Remove(7, 7)
	require.True(t, ok)
	require.Equal(t, "a", p.Name)
	checkTree(t, tree)
}

func TestRemoveByName(t *testing.T) {
	tree := New()
	tree.Insert(600, 10, "dup")
	tree.Insert(10, 10, "dup")
	tree.Insert(10, 600, "x")
	tree.Insert(600, 600, "y")

	// NW is probed before NE.
	p, ok := tree.RemoveByName("dup")
	require.True(t, ok)
	require.Equal(t, NewPoint("dup", 10, 10), p)
	checkTree(t, tree)

	p, ok = tree.RemoveByName("dup")
	require.True(t, ok)
	require.Equal(t, NewPoint("dup", 600, 10), p)
	checkTree(t, tree)

	_, ok = tree.RemoveByName("dup")
	require.False(t, ok)
	require.Equal(t, 2, tree.Len())
}

func TestRoundTrip(t *testing.T) {
	tree := New()
	rnd := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		tree.Insert(rnd.IntN(WorldSize), rnd.IntN(WorldSize), "p"+strconv.Itoa(i))
	}
	before, visitedBefore := tree.RegionSearch(100, 100, 400, 400)
	dumpBefore, _ := tree.Dump()

	require.NotEmpty(t, before)
	removed, ok := tree.RemovePoint(before[0])
	require.True(t, ok)
	require.True(t, tree.Insert(removed.X, removed.Y, removed.Name))
	checkTree(t, tree)

	after, visitedAfter := tree.RegionSearch(100, 100, 400, 400)
	require.ElementsMatch(t, before, after)
	require.Equal(t, visitedBefore, visitedAfter)
	dumpAfter, _ := tree.Dump()
	require.Equal(t, len(dumpBefore), len(dumpAfter))
}

// Random inserts and removes, checking the structural rules along the way.
func TestRandomMutations(t *testing.T) {
	tree := New()
	rnd := rand.New(rand.NewPCG(42, 7))
	var live []Point
	for step := 0; step < 3000; step++ {
		if len(live) == 0 || rnd.IntN(3) != 0 {
			// A small coordinate range makes stacked points common.
			p := NewPoint("p"+strconv.Itoa(step), rnd.IntN(16)*64, rnd.IntN(16)*64)
			require.True(t, tree.Insert(p.X, p.Y, p.Name))
			live = append(live, p)
		} else {
			i := rnd.IntN(len(live))
			removed, ok := tree.RemovePoint(live[i])
			require.True(t, ok)
			require.Equal(t, live[i], removed)
			live = append(live[:i], live[i+1:]...)
		}
		if step%50 == 0 {
			checkTree(t, tree)
		}
	}
	checkTree(t, tree)
	all, _ := tree.RegionSearch(0, 0, WorldSize, WorldSize)
	require.ElementsMatch(t, live, all)
}

func benchInsert(b *testing.B, n int) {
	b.StopTimer()
	xs, err := mathutil.NewFC32(0, WorldSize-1, true)
	if err != nil {
		b.Fatal(err)
	}
	ys, err := mathutil.NewFC32(0, WorldSize-1, true)
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree := New()
		for j := 0; j < n; j++ {
			tree.Insert(xs.Next(), ys.Next(), "p")
		}
	}
}

func BenchmarkInsert1k(b *testing.B)  { benchInsert(b, 1000) }
func BenchmarkInsert10k(b *testing.B) { benchInsert(b, 10000) }
