package audio

import (
	"errors"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cbegin/keyclack-go/internal/voice"
)

type blockingDevice struct {
	release chan struct{}
	started chan struct{}
	calls   atomic.Int32
	err     error
}

func newBlockingDevice() *blockingDevice {
	return &blockingDevice{release: make(chan struct{}), started: make(chan struct{}, 64)}
}

func (d *blockingDevice) Play(voice.Buffer) error {
	d.calls.Add(1)
	d.started <- struct{}{}
	<-d.release
	return d.err
}

func (d *blockingDevice) Close() error { return nil }

var testBuf = voice.Buffer{Profile: voice.Press, Samples: make([]int16, 441)}

func TestAsyncPlayDoesNotBlock(t *testing.T) {
	dev := newBlockingDevice()
	a := NewAsync(dev, 4)
	done := make(chan struct{})
	go func() {
		a.Play(testBuf)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Play blocked on a busy device")
	}
	<-dev.started
	close(dev.release)
	a.Wait()
	if st := a.Stats(); st.Played != 1 || st.Dropped != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestAsyncDropsWhenSaturated(t *testing.T) {
	dev := newBlockingDevice()
	a := NewAsync(dev, 2)
	for i := 0; i < 5; i++ {
		a.Play(testBuf)
	}
	<-dev.started
	<-dev.started
	if got := a.Stats().Dropped; got != 3 {
		t.Fatalf("dropped = %d, want 3", got)
	}
	close(dev.release)
	a.Wait()
	if got := dev.calls.Load(); got != 2 {
		t.Fatalf("device calls = %d, want 2", got)
	}
	// capacity frees up once playback finishes
	dev.release = make(chan struct{})
	close(dev.release)
	a.Play(testBuf)
	a.Wait()
	if got := a.Stats().Played; got != 3 {
		t.Fatalf("played = %d, want 3", got)
	}
}

func TestAsyncSwallowsDeviceErrors(t *testing.T) {
	dev := newBlockingDevice()
	dev.err = errors.New("device busy")
	close(dev.release)
	a := NewAsync(dev, 0)
	a.Play(testBuf)
	a.Play(testBuf)
	a.Wait()
	if st := a.Stats(); st.Failed != 2 || st.Played != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

type panicDevice struct{}

func (panicDevice) Play(voice.Buffer) error { panic("no output") }
func (panicDevice) Close() error            { return nil }

func TestAsyncRecoversDevicePanic(t *testing.T) {
	a := NewAsync(panicDevice{}, 1)
	a.Play(testBuf)
	a.Wait()
	if got := a.Stats().Failed; got != 1 {
		t.Fatalf("failed = %d, want 1", got)
	}
}

func TestDiscardCounts(t *testing.T) {
	d := &Discard{}
	a := NewAsync(d, 8)
	for i := 0; i < 3; i++ {
		a.Play(testBuf)
		a.Wait()
	}
	if d.Count() != 3 {
		t.Fatalf("count = %d, want 3", d.Count())
	}
}

func TestOpenUnknownOutput(t *testing.T) {
	if _, err := Open("speaker"); err == nil {
		t.Fatalf("expected error for unknown output")
	}
	dev, err := Open(" NONE ")
	if err != nil {
		t.Fatalf("open none: %v", err)
	}
	if _, ok := dev.(*Discard); !ok {
		t.Fatalf("none output = %T, want *Discard", dev)
	}
}

func TestPaplayArgs(t *testing.T) {
	d := NewPaplayDevice()
	want := []string{"--raw", "--format=s16le", "--rate=44100", "--channels=1"}
	if len(d.Args) != len(want) {
		t.Fatalf("args = %v", d.Args)
	}
	for i := range want {
		if d.Args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, d.Args[i], want[i])
		}
	}
}

func TestExecDeviceFeedsStdin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	// exit status reports whether all 882 PCM bytes arrived
	d := &ExecDevice{Name: "sh", Args: []string{"-c", `test "$(wc -c)" -eq 882`}}
	if err := d.Play(testBuf); err != nil {
		t.Fatalf("play: %v", err)
	}
	bad := &ExecDevice{Name: "sh", Args: []string{"-c", "exit 3"}}
	if err := bad.Play(testBuf); err == nil {
		t.Fatalf("expected error from failing player")
	}
}

func TestWaitDrainedHonoursDeadline(t *testing.T) {
	start := time.Now()
	waitDrained(voice.Buffer{Samples: make([]int16, 441)}, func() bool { return true })
	if el := time.Since(start); el > 2*time.Second || el < drainSlack {
		t.Fatalf("waitDrained took %v", el)
	}
}
