package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/cbegin/keyclack-go/internal/dispatch"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04

	// ttyCodeBase keeps terminal bytes clear of real evdev key codes.
	ttyCodeBase = 0x300
)

// TTY turns bytes typed into the controlling terminal into key transitions.
// A terminal cannot see releases, so each byte becomes a Down followed by an
// Up. Ctrl-C and Ctrl-D end the source, since raw mode swallows SIGINT.
type TTY struct {
	in       *os.File
	fd       int
	oldState *term.State
}

// NewTTY puts in into raw mode. Close restores it.
func NewTTY(in *os.File) (*TTY, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", in.Name())
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal raw mode: %w", err)
	}
	return &TTY{in: in, fd: fd, oldState: oldState}, nil
}

func (t *TTY) Read(ctx context.Context, out chan<- dispatch.Event) error {
	return readBytes(ctx, t.in, out)
}

func (t *TTY) Close() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// readBytes reads r on a helper goroutine so ctx can end the loop while a
// read is pending. A helper stuck in Read exits on the next byte.
func readBytes(ctx context.Context, r io.Reader, out chan<- dispatch.Event) error {
	type chunk struct {
		b   byte
		err error
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := make(chan chunk)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case ch <- chunk{b: buf[0]}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case ch <- chunk{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-ch:
			if c.err != nil {
				if errors.Is(c.err, io.EOF) {
					return nil
				}
				return c.err
			}
			evs, stop := byteEvents(c.b)
			if stop {
				return nil
			}
			for _, ev := range evs {
				if err := send(ctx, out, ev); err != nil {
					return err
				}
			}
		}
	}
}

func byteEvents(b byte) ([]dispatch.Event, bool) {
	switch b {
	case ctrlC, ctrlD:
		return nil, true
	case ' ':
		return []dispatch.Event{dispatch.KeyDown(dispatch.KeySpace), dispatch.KeyUp(dispatch.KeySpace)}, false
	}
	code := ttyCodeBase + uint16(b)
	return []dispatch.Event{dispatch.KeyDown(code), dispatch.KeyUp(code)}, false
}
