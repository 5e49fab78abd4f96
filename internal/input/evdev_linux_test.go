//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/keyclack-go/internal/dispatch"
)

func rawEvent(typ, code uint16, value int32) []byte {
	b := make([]byte, eventSize)
	binary.NativeEndian.PutUint16(b[timevalSize:], typ)
	binary.NativeEndian.PutUint16(b[timevalSize+2:], code)
	binary.NativeEndian.PutUint32(b[timevalSize+4:], uint32(value))
	return b
}

func TestIoctlNumbers(t *testing.T) {
	if got := eviocgname(256); got != 0x81004506 {
		t.Fatalf("EVIOCGNAME(256) = %#x", got)
	}
	if got := eviocgbit(evKey, keyMax/8+1); got != 0x80604521 {
		t.Fatalf("EVIOCGBIT(EV_KEY) = %#x", got)
	}
}

func TestDecodeEvent(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
		want dispatch.Event
		ok   bool
	}{
		{"press", rawEvent(evKey, 30, 1), dispatch.KeyDown(30), true},
		{"release", rawEvent(evKey, 57, 0), dispatch.KeyUp(57), true},
		{"repeat", rawEvent(evKey, 30, 2), dispatch.Event{Kind: dispatch.KindKey, Code: 30, Phase: dispatch.Down, Repeat: true}, true},
		{"msc", rawEvent(0x04, 4, 458756), dispatch.Event{Kind: dispatch.KindOther, Code: 4, Phase: 458756}, true},
		{"syn", rawEvent(evSyn, 0, 0), dispatch.Event{}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := decodeEvent(tc.raw)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("decode = %+v,%v want %+v,%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestHasBits(t *testing.T) {
	bits := make([]byte, keyMax/8+1)
	bits[dispatch.KeyA/8] |= 1 << (dispatch.KeyA % 8)
	if hasBits(bits, dispatch.KeyA, dispatch.KeyZ) {
		t.Fatalf("KEY_Z not set but reported")
	}
	bits[dispatch.KeyZ/8] |= 1 << (dispatch.KeyZ % 8)
	if !hasBits(bits, dispatch.KeyA, dispatch.KeyZ) {
		t.Fatalf("KEY_A and KEY_Z set but not reported")
	}
	if hasBits(bits, 0xffff) {
		t.Fatalf("out-of-range code reported")
	}
}

func TestSortDevicePaths(t *testing.T) {
	paths := []string{"/dev/input/event10", "/dev/input/event2", "/dev/input/event0"}
	sortDevicePaths(paths)
	if paths[0] != "/dev/input/event0" || paths[1] != "/dev/input/event2" || paths[2] != "/dev/input/event10" {
		t.Fatalf("sorted = %v", paths)
	}
}

func TestFindKeyboardNoDevices(t *testing.T) {
	dir := t.TempDir()
	old := DevicePattern
	t.Cleanup(func() { DevicePattern = old })

	DevicePattern = filepath.Join(dir, "event*")
	if _, err := FindKeyboard(); !errors.Is(err, ErrNoKeyboard) {
		t.Fatalf("empty dir: err = %v, want ErrNoKeyboard", err)
	}

	// a plain file opens but rejects the name ioctl
	if err := os.WriteFile(filepath.Join(dir, "event0"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := FindKeyboard()
	if !errors.Is(err, ErrNoKeyboard) {
		t.Fatalf("plain file: err = %v, want ErrNoKeyboard", err)
	}
}
