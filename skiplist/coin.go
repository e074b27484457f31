package skiplist

import "math/rand/v2"

// Coin is the randomness a SkipList draws node levels from. Flip reports
// heads; a level keeps growing while heads come up.
type Coin interface {
	Flip() bool
}

// RandCoin flips a fair coin from a seeded PCG source.
type RandCoin struct {
	rnd *rand.Rand
}

// NewRandCoin returns a fair coin seeded with seed.
func NewRandCoin(seed uint64) *RandCoin {
	return &RandCoin{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Flip reports heads with probability one half.
func (c *RandCoin) Flip() bool {
	return c.rnd.IntN(2) == 0
}

// SequenceCoin replays a fixed list of outcomes, then keeps returning tails.
// Tests use it to pin exact node levels.
type SequenceCoin struct {
	flips []bool
}

// Sequence returns a coin that yields flips in order.
func Sequence(flips ...bool) *SequenceCoin {
	return &SequenceCoin{flips: flips}
}

// Flip returns the next queued outcome, or tails once the queue is empty.
func (c *SequenceCoin) Flip() bool {
	if len(c.flips) == 0 {
		return false
	}
	f := c.flips[0]
	c.flips = c.flips[1:]
	return f
}

// Push appends more outcomes to the sequence.
func (c *SequenceCoin) Push(flips ...bool) {
	c.flips = append(c.flips, flips...)
}
