package datafeed

import (
	"math/rand"
	"sync"
)

// rng is the shared seeded random generator driving block and sample
// shuffles. It lives for the lifetime of a Reader, so consecutive epochs
// draw from evolving generator state and two Readers with the same seed
// produce identical epoch sequences. Mutex-guarded: the bucketer and feeder
// both shuffle through it.
type rng struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newRNG(seed int64) *rng {
	return &rng{r: rand.New(rand.NewSource(seed))}
}

// Shuffle implements index.Shuffler.
func (g *rng) Shuffle(n int, swap func(i, j int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.r.Shuffle(n, swap)
}
