package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/cbegin/keyclack-go/internal/voice"
)

const DefaultMaxInFlight = 16

// Async turns a blocking Device into a fire-and-forget sink. At most
// maxInFlight buffers play at once; requests beyond that are dropped.
type Async struct {
	dev     Device
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	played  atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

func NewAsync(dev Device, maxInFlight int) *Async {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Async{dev: dev, sem: semaphore.NewWeighted(int64(maxInFlight))}
}

// Play starts buf on its own goroutine and returns immediately.
func (a *Async) Play(buf voice.Buffer) {
	if !a.sem.TryAcquire(1) {
		a.dropped.Add(1)
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.sem.Release(1)
		if err := a.play(buf); err != nil {
			a.failed.Add(1)
			return
		}
		a.played.Add(1)
	}()
}

func (a *Async) play(buf voice.Buffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audio: device panic: %v", r)
		}
	}()
	return a.dev.Play(buf)
}

// Wait blocks until in-flight playbacks finish. Shutdown does not call it.
func (a *Async) Wait() { a.wg.Wait() }

func (a *Async) Close() error { return a.dev.Close() }

type Stats struct {
	Played  uint64
	Dropped uint64
	Failed  uint64
}

func (a *Async) Stats() Stats {
	return Stats{Played: a.played.Load(), Dropped: a.dropped.Load(), Failed: a.failed.Load()}
}

// Discard accepts every buffer without output.
type Discard struct {
	count atomic.Uint64
}

func (d *Discard) Play(voice.Buffer) error {
	d.count.Add(1)
	return nil
}

func (d *Discard) Close() error { return nil }

// Count returns the number of buffers accepted.
func (d *Discard) Count() uint64 { return d.count.Load() }
