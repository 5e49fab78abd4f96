package dispatch

// Kind separates key transitions from everything else an input device emits.
type Kind int

const (
	KindKey Kind = iota
	KindOther
)

// Phase is the key state after the transition. Values match the evdev
// EV_KEY value for release and press.
type Phase int

const (
	Up   Phase = 0
	Down Phase = 1
)

func (p Phase) String() string {
	switch p {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Scancodes used by the built-in sources (Linux input-event-codes).
const (
	KeyA     uint16 = 30
	KeyZ     uint16 = 44
	KeySpace uint16 = 57
)

// Event is one raw key transition. Repeat marks a Down generated by the
// device's auto-repeat while the key is held.
type Event struct {
	Kind   Kind
	Code   uint16
	Phase  Phase
	Repeat bool
}

func KeyDown(code uint16) Event { return Event{Kind: KindKey, Code: code, Phase: Down} }
func KeyUp(code uint16) Event   { return Event{Kind: KindKey, Code: code, Phase: Up} }
