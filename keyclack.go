package keyclack

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	intaudio "github.com/cbegin/keyclack-go/internal/audio"
	intdispatch "github.com/cbegin/keyclack-go/internal/dispatch"
	intinput "github.com/cbegin/keyclack-go/internal/input"
	intpool "github.com/cbegin/keyclack-go/internal/pool"
)

type Option func(*config)

type config struct {
	seeded         bool
	seed           uint64
	sizes          intpool.Sizes
	spaceCode      uint16
	suppressRepeat bool
	maxInFlight    int
	device         intaudio.Device
}

func defaultConfig() config {
	return config{
		sizes:       intpool.DefaultSizes(),
		spaceCode:   intdispatch.KeySpace,
		maxInFlight: intaudio.DefaultMaxInFlight,
	}
}

// WithSeed makes variant rendering and selection reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		cfg.seeded = true
		cfg.seed = seed
	}
}

func WithPoolSizes(press, release int) Option {
	return func(cfg *config) {
		cfg.sizes = intpool.Sizes{Press: press, Release: release}
	}
}

// WithSpaceCode changes which scancode plays the spacebar sound.
func WithSpaceCode(code uint16) Option {
	return func(cfg *config) {
		cfg.spaceCode = code
	}
}

// WithSuppressRepeat drops auto-repeat presses from held keys. By default
// every repeat clicks like a fresh press.
func WithSuppressRepeat(enabled bool) Option {
	return func(cfg *config) {
		cfg.suppressRepeat = enabled
	}
}

// WithMaxInFlight bounds how many sounds may play at once.
func WithMaxInFlight(n int) Option {
	return func(cfg *config) {
		cfg.maxInFlight = n
	}
}

// WithDevice sets the output. The engine closes it on Close. Defaults to
// the ebiten audio context.
func WithDevice(dev intaudio.Device) Option {
	return func(cfg *config) {
		cfg.device = dev
	}
}

func (cfg config) rand() *rand.Rand {
	if cfg.seeded {
		return newSeededRand(cfg.seed)
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
}

// Engine owns the rendered sound bank and turns key transitions into sounds.
type Engine struct {
	bank      *intpool.Bank
	sink      *intaudio.Async
	disp      *intdispatch.Dispatcher
	closeOnce sync.Once
	closeErr  error
}

// New renders every pool before returning, so the first key event never
// waits on synthesis.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := cfg.rand()
	bank, err := intpool.BuildBank(cfg.sizes, rng)
	if err != nil {
		return nil, err
	}
	dev := cfg.device
	if dev == nil {
		if dev, err = intaudio.Open(intaudio.OutputEbiten); err != nil {
			bank.Release()
			return nil, err
		}
	}
	sink := intaudio.NewAsync(dev, cfg.maxInFlight)
	disp, err := intdispatch.New(bank, sink, intdispatch.Options{
		SpaceCode:      cfg.spaceCode,
		SuppressRepeat: cfg.suppressRepeat,
		Rand:           rng,
	})
	if err != nil {
		bank.Release()
		_ = dev.Close()
		return nil, err
	}
	return &Engine{bank: bank, sink: sink, disp: disp}, nil
}

// Run reads src on its own goroutine and dispatches until ctx is done or
// the source ends. Cancellation returns ctx.Err().
func (e *Engine) Run(ctx context.Context, src intinput.Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan intdispatch.Event, 64)
	readErr := make(chan error, 1)
	go func() {
		defer close(events)
		readErr <- src.Read(ctx, events)
	}()

	err := e.disp.Run(ctx, events)
	cancel()
	if rerr := <-readErr; rerr != nil && !errors.Is(rerr, context.Canceled) {
		return rerr
	}
	return err
}

// Trigger dispatches a single event, reporting whether a sound was started.
// It must not be called concurrently with Run.
func (e *Engine) Trigger(ev intdispatch.Event) bool {
	return e.disp.Dispatch(ev)
}

type Stats struct {
	Dispatch intdispatch.Stats
	Playback intaudio.Stats
}

func (e *Engine) Stats() Stats {
	return Stats{Dispatch: e.disp.Stats(), Playback: e.sink.Stats()}
}

// Close releases the sound bank and the output device. Playback already in
// flight is left to finish on its own.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.bank.Release()
		e.closeErr = e.sink.Close()
	})
	return e.closeErr
}
