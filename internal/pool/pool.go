package pool

import (
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/keyclack-go/internal/voice"
)

// Default pool sizes. Space always has a single canonical render.
const (
	DefaultPressSize   = 8
	DefaultReleaseSize = 5
	SpaceSize          = 1
)

// Pool is a fixed, read-only set of variants of one profile.
type Pool struct {
	Profile  voice.Profile
	Variants []voice.Buffer
}

// Len returns the number of variants.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Variants)
}

// Pick returns a uniformly chosen variant. ok is false for an empty pool.
func (p *Pool) Pick(rng *rand.Rand) (buf voice.Buffer, ok bool) {
	if p.Len() == 0 {
		return voice.Buffer{}, false
	}
	return p.Variants[rng.IntN(len(p.Variants))], true
}

// Build renders size variants of profile, each with an independent
// variation drawn from rng. Variants render in parallel; each slot gets its
// own source seeded from rng, so equal seeds build equal pools.
func Build(profile voice.Profile, size int, rng *rand.Rand) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool %v: size must be positive, got %d", profile, size)
	}
	if profile == voice.Space {
		size = SpaceSize
	}
	type slot struct {
		variation float64
		seed1     uint64
		seed2     uint64
	}
	slots := make([]slot, size)
	for i := range slots {
		slots[i] = slot{variation: rng.Float64()*2 - 1, seed1: rng.Uint64(), seed2: rng.Uint64()}
	}
	p := &Pool{Profile: profile, Variants: make([]voice.Buffer, size)}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range slots {
		g.Go(func() error {
			p.Variants[i] = voice.Render(profile, s.variation, rand.New(rand.NewPCG(s.seed1, s.seed2)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
