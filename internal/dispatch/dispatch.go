package dispatch

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"

	"github.com/cbegin/keyclack-go/internal/pool"
	"github.com/cbegin/keyclack-go/internal/voice"
)

// Sink receives chosen buffers. Play must return without waiting for audio
// output; failures are the sink's to swallow.
type Sink interface {
	Play(buf voice.Buffer)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(voice.Buffer)

func (f SinkFunc) Play(buf voice.Buffer) { f(buf) }

type Options struct {
	// SpaceCode is the scancode routed to the Space pool. Zero means KeySpace.
	SpaceCode uint16
	// SuppressRepeat drops auto-repeat Down events instead of playing them.
	SuppressRepeat bool
	// Rand drives variant selection. Nil seeds a fresh source.
	Rand *rand.Rand
}

// Classify maps a key transition to the profile it sounds. ok is false for
// events that make no sound.
func Classify(ev Event, spaceCode uint16) (profile voice.Profile, ok bool) {
	if ev.Kind != KindKey {
		return 0, false
	}
	switch ev.Phase {
	case Down:
		if ev.Code == spaceCode {
			return voice.Space, true
		}
		return voice.Press, true
	case Up:
		return voice.Release, true
	default:
		return 0, false
	}
}

// Dispatcher picks a variant for each key transition and hands it to a Sink.
// It is not safe for concurrent use; a single goroutine owns it.
type Dispatcher struct {
	bank           *pool.Bank
	sink           Sink
	rng            *rand.Rand
	spaceCode      uint16
	suppressRepeat bool
	played         [3]atomic.Uint64
	ignored        atomic.Uint64
}

func New(bank *pool.Bank, sink Sink, opts Options) (*Dispatcher, error) {
	if sink == nil {
		return nil, errors.New("dispatch: nil sink")
	}
	if _, err := bank.Pools(); err != nil {
		return nil, err
	}
	d := &Dispatcher{
		bank:           bank,
		sink:           sink,
		rng:            opts.Rand,
		spaceCode:      opts.SpaceCode,
		suppressRepeat: opts.SuppressRepeat,
	}
	if d.spaceCode == 0 {
		d.spaceCode = KeySpace
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return d, nil
}

// Dispatch classifies ev and triggers playback. It reports whether a buffer
// was handed to the sink. Once the bank is released every event is ignored.
func (d *Dispatcher) Dispatch(ev Event) bool {
	if ev.Repeat && d.suppressRepeat {
		d.ignored.Add(1)
		return false
	}
	profile, ok := Classify(ev, d.spaceCode)
	if !ok {
		d.ignored.Add(1)
		return false
	}
	buf, ok := d.bank.Pool(profile).Pick(d.rng)
	if !ok {
		d.ignored.Add(1)
		return false
	}
	d.sink.Play(buf)
	d.played[profile].Add(1)
	return true
}

// Run dispatches events until ctx is done or events is closed.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.Dispatch(ev)
		}
	}
}

type Stats struct {
	Press   uint64
	Release uint64
	Space   uint64
	Ignored uint64
}

// Stats may be read from any goroutine.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Press:   d.played[voice.Press].Load(),
		Release: d.played[voice.Release].Load(),
		Space:   d.played[voice.Space].Load(),
		Ignored: d.ignored.Load(),
	}
}
