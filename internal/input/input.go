package input

import (
	"context"
	"errors"
	"strings"

	"github.com/cbegin/keyclack-go/internal/dispatch"
)

// ErrNoKeyboard means no readable input device reports letter keys.
var ErrNoKeyboard = errors.New("no keyboard input device found")

// Source delivers key transitions until ctx is done or the source ends.
// Read closes nothing; the caller closes out after Read returns.
type Source interface {
	Read(ctx context.Context, out chan<- dispatch.Event) error
	Close() error
}

// pickKeyboard chooses among devices that already report KEY_A and KEY_Z.
// A built-in "AT Translated" keyboard, or anything named keyboard that is
// not also a mouse, beats the first candidate.
func pickKeyboard(names []string) int {
	if len(names) == 0 {
		return -1
	}
	for i, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "at translated") ||
			(strings.Contains(lower, "keyboard") && !strings.Contains(lower, "mouse")) {
			return i
		}
	}
	return 0
}

// send forwards ev unless ctx finishes first.
func send(ctx context.Context, out chan<- dispatch.Event, ev dispatch.Event) error {
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
