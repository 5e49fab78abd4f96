package pool

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/cbegin/keyclack-go/internal/voice"
)

var ErrReleased = errors.New("pool: bank released")

type Sizes struct {
	Press   int
	Release int
}

func DefaultSizes() Sizes {
	return Sizes{Press: DefaultPressSize, Release: DefaultReleaseSize}
}

// Bank owns the pools of every profile for the life of the process.
type Bank struct {
	mu       sync.RWMutex
	pools    map[voice.Profile]*Pool
	released bool
}

// BuildBank renders all pools up front.
func BuildBank(sizes Sizes, rng *rand.Rand) (*Bank, error) {
	b := &Bank{pools: make(map[voice.Profile]*Pool, len(voice.Profiles))}
	for _, profile := range voice.Profiles {
		size := SpaceSize
		switch profile {
		case voice.Press:
			size = sizes.Press
		case voice.Release:
			size = sizes.Release
		}
		p, err := Build(profile, size, rng)
		if err != nil {
			return nil, err
		}
		b.pools[profile] = p
	}
	return b, nil
}

// Pool returns the pool for profile, or nil after Release.
func (b *Bank) Pool(profile voice.Profile) *Pool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pools[profile]
}

// Pools returns a snapshot of the pools in profile order.
func (b *Bank) Pools() ([]*Pool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.released {
		return nil, ErrReleased
	}
	out := make([]*Pool, 0, len(voice.Profiles))
	for _, profile := range voice.Profiles {
		out = append(out, b.pools[profile])
	}
	return out, nil
}

// Release drops every rendered buffer. Safe to call more than once.
// Buffers already handed to playback remain valid until those calls finish.
func (b *Bank) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pools = nil
	b.released = true
}
