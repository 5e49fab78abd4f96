//go:build !linux

package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbegin/keyclack-go/internal/dispatch"
)

var errNoEvdev = errors.New("evdev input requires linux")

// Device is unavailable off Linux; use the terminal source instead.
type Device struct {
	Path string
	Name string
}

func OpenDevice(path string) (*Device, error) {
	return nil, fmt.Errorf("%s: %w", path, errNoEvdev)
}

func FindKeyboard() (*Device, error) {
	return nil, fmt.Errorf("%w: %w", ErrNoKeyboard, errNoEvdev)
}

func (d *Device) Read(ctx context.Context, out chan<- dispatch.Event) error { return errNoEvdev }

func (d *Device) Close() error { return nil }
