// Package skiplist implements an ordered multimap as a probabilistic skip
// list.
//
// A skip list keeps its entries in a sorted linked list and promotes some
// nodes into higher "express lanes" so that a search can jump over long runs
// of smaller keys. Node levels are drawn from a geometric distribution by
// flipping a Coin, which callers may replace to get reproducible shapes.
//
// Keys need not be unique. Descent stops at the first key that is not less
// than the one sought, so a repeated key is spliced in ahead of the entries
// already stored under it, and Remove takes the first of them: the most
// recent.
//
// Levels are numbered from 1. The head is a sentinel with no pair whose level
// is the highest level any node has reached; it only ever grows.
package skiplist

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/cznic/mathutil"
)

// ErrNilPair is returned by Insert when handed a nil pair.
var ErrNilPair = errors.New("skiplist: nil key-value pair")

// KVPair associates a Value with a Key.
type KVPair[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// NewPair returns a pair of key and value.
func NewPair[K cmp.Ordered, V any](key K, value V) *KVPair[K, V] {
	return &KVPair[K, V]{Key: key, Value: value}
}

// String renders only the value, which is how pairs appear in dumps.
func (p *KVPair[K, V]) String() string {
	return fmt.Sprint(p.Value)
}

type skipNode[K cmp.Ordered, V any] struct {
	pair *KVPair[K, V]
	// forward[i-1] is the successor at level i; len(forward) is the level.
	forward []*skipNode[K, V]
}

func newNode[K cmp.Ordered, V any](pair *KVPair[K, V], level int) *skipNode[K, V] {
	return &skipNode[K, V]{pair: pair, forward: make([]*skipNode[K, V], level)}
}

func (n *skipNode[K, V]) level() int {
	return len(n.forward)
}

func (n *skipNode[K, V]) next(level int) *skipNode[K, V] {
	return n.forward[level-1]
}

func (n *skipNode[K, V]) setNext(level int, to *skipNode[K, V]) {
	n.forward[level-1] = to
}

// SkipList is an ordered multimap from K to V.
type SkipList[K cmp.Ordered, V any] struct {
	head  *skipNode[K, V]
	size  int
	coin  Coin
	equal func(a, b V) bool
}

// New creates an empty SkipList. equal decides value matches for
// RemoveByValue and must not be nil. A nil coin is replaced by a RandCoin
// with a fixed seed.
func New[K cmp.Ordered, V any](equal func(a, b V) bool, coin Coin) *SkipList[K, V] {
	if equal == nil {
		panic("skiplist: nil equal func")
	}
	if coin == nil {
		coin = NewRandCoin(1)
	}
	return &SkipList[K, V]{
		head:  newNode[K, V](nil, 1),
		coin:  coin,
		equal: equal,
	}
}

// Len returns the number of pairs stored.
func (s *SkipList[K, V]) Len() int {
	return s.size
}

// Level returns the level of the head, the highest level any node has had.
func (s *SkipList[K, V]) Level() int {
	return s.head.level()
}

// randomLevel counts coin flips up to and including the first tails.
func (s *SkipList[K, V]) randomLevel() int {
	level := 1
	for s.coin.Flip() {
		level++
	}
	return level
}

// adjustHead grows the head to level, leaving the new lanes empty.
func (s *SkipList[K, V]) adjustHead(level int) {
	grown := make([]*skipNode[K, V], level)
	copy(grown, s.head.forward)
	s.head.forward = grown
}

// descend walks from the head's top level down to level 1, stopping each lane
// before the first key not less than key. It returns the last node seen at
// every level, indexed by level-1.
func (s *SkipList[K, V]) descend(key K) []*skipNode[K, V] {
	update := make([]*skipNode[K, V], s.head.level())
	x := s.head
	for i := s.head.level(); i >= 1; i-- {
		for next := x.next(i); next != nil && cmp.Less(next.pair.Key, key); next = x.next(i) {
			x = next
		}
		update[i-1] = x
	}
	return update
}

// Insert adds pair, ahead of any pairs already stored under the same key.
func (s *SkipList[K, V]) Insert(pair *KVPair[K, V]) error {
	if pair == nil {
		return ErrNilPair
	}
	level := s.randomLevel()
	if level > s.head.level() {
		s.adjustHead(level)
	}
	update := s.descend(pair.Key)
	n := newNode(pair, level)
	for i := 1; i <= level; i++ {
		n.setNext(i, update[i-1].next(i))
		update[i-1].setNext(i, n)
	}
	s.size++
	return nil
}

// Search returns every pair stored under key, most recently inserted first.
// The result is empty when key is absent.
func (s *SkipList[K, V]) Search(key K) []*KVPair[K, V] {
	var found []*KVPair[K, V]
	for x := s.descend(key)[0].next(1); x != nil && x.pair.Key == key; x = x.next(1) {
		found = append(found, x.pair)
	}
	return found
}

// Remove unlinks the first pair stored under key and returns it, or nil if
// there is none.
func (s *SkipList[K, V]) Remove(key K) *KVPair[K, V] {
	update := s.descend(key)
	x := update[0].next(1)
	if x == nil || x.pair.Key != key {
		return nil
	}
	for i := 1; i <= s.head.level(); i++ {
		if update[i-1].next(i) == x {
			update[i-1].setNext(i, x.next(i))
		}
	}
	s.size--
	return x.pair
}

// RemoveByValue removes the first pair, in key order, whose value equals value
// and returns it, or nil if there is none. Values are unordered, so this scans
// the bottom lane; the unlinking itself is done by Remove on the matched key.
func (s *SkipList[K, V]) RemoveByValue(value V) *KVPair[K, V] {
	for x := s.head.next(1); x != nil; x = x.next(1) {
		if s.equal(x.pair.Value, value) {
			return s.Remove(x.pair.Key)
		}
	}
	return nil
}

// All iterates over every pair in key order.
func (s *SkipList[K, V]) All() iter.Seq[*KVPair[K, V]] {
	return func(yield func(*KVPair[K, V]) bool) {
		for x := s.head.next(1); x != nil; x = x.next(1) {
			if !yield(x.pair) {
				return
			}
		}
	}
}

// Dump renders the head depth, each node's depth and value in key order, and
// the size.
func (s *SkipList[K, V]) Dump() string {
	var sb strings.Builder
	sb.WriteString("SkipList dump:\n")
	if s.size == 0 {
		sb.WriteString("Node has depth 1, value (null)\n")
		sb.WriteString("SkipList size is: 0\n")
		return sb.String()
	}
	sb.WriteString("Node has depth " + strconv.Itoa(s.head.level()) + ", value null\n")

	// A node's depth is the highest lane that reaches it from the head.
	depth := make(map[*skipNode[K, V]]int, s.size)
	for i := 1; i <= s.head.level(); i++ {
		for x := s.head.next(i); x != nil; x = x.next(i) {
			depth[x] = mathutil.Max(depth[x], i)
		}
	}
	for x := s.head.next(1); x != nil; x = x.next(1) {
		sb.WriteString("Node has depth " + strconv.Itoa(depth[x]) + ", value " + x.pair.String() + "\n")
	}
	sb.WriteString("SkipList size is: " + strconv.Itoa(s.size) + "\n")
	return sb.String()
}
