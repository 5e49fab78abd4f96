//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cbegin/keyclack-go/internal/dispatch"
)

const (
	evSyn  = 0x00
	evKey  = 0x01
	keyMax = 0x2ff

	iocRead = 2

	// EV_KEY values
	keyReleased = 0
	keyPressed  = 1
	keyRepeated = 2
)

// struct input_event: struct timeval, __u16 type, __u16 code, __s32 value.
var (
	timevalSize = int(unsafe.Sizeof(unix.Timeval{}))
	eventSize   = timevalSize + 8
)

// DevicePattern matches the evdev nodes scanned by FindKeyboard.
var DevicePattern = "/dev/input/event*"

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | typ<<8 | nr
}

func eviocgname(size int) uintptr { return ioc(iocRead, 'E', 0x06, uintptr(size)) }

func eviocgbit(ev, size int) uintptr { return ioc(iocRead, 'E', 0x20+uintptr(ev), uintptr(size)) }

// Device is an open evdev node.
type Device struct {
	Path string
	Name string

	f         *os.File
	closeOnce sync.Once
	closeErr  error
}

// OpenDevice opens path and reads its name.
func OpenDevice(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	d := &Device{Path: path, f: f}
	name := make([]byte, 256)
	n, err := d.ioctl(eviocgname(len(name)), name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: read name: %w", path, err)
	}
	d.Name = strings.TrimRight(string(name[:n]), "\x00")
	return d, nil
}

// ioctl goes through SyscallConn so the file stays in the runtime poller and
// Close can interrupt a pending Read.
func (d *Device) ioctl(req uintptr, buf []byte) (int, error) {
	rc, err := d.f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var (
		n     uintptr
		errno unix.Errno
	)
	if err := rc.Control(func(fd uintptr) {
		n, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&buf[0])))
	}); err != nil {
		return 0, err
	}
	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

// HasKeys reports whether the device advertises every code in its EV_KEY
// capability bitmap.
func (d *Device) HasKeys(codes ...uint16) bool {
	bits := make([]byte, keyMax/8+1)
	if _, err := d.ioctl(eviocgbit(evKey, len(bits)), bits); err != nil {
		return false
	}
	return hasBits(bits, codes...)
}

func hasBits(bits []byte, codes ...uint16) bool {
	for _, c := range codes {
		i := int(c / 8)
		if i >= len(bits) || bits[i]&(1<<(c%8)) == 0 {
			return false
		}
	}
	return true
}

// FindKeyboard opens every evdev node and keeps the most keyboard-like one.
func FindKeyboard() (*Device, error) {
	paths, err := filepath.Glob(DevicePattern)
	if err != nil {
		return nil, err
	}
	sortDevicePaths(paths)
	var (
		candidates []*Device
		firstErr   error
	)
	for _, path := range paths {
		d, err := OpenDevice(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if d.HasKeys(dispatch.KeyA, dispatch.KeyZ) {
			candidates = append(candidates, d)
		} else {
			d.Close()
		}
	}
	names := make([]string, len(candidates))
	for i, d := range candidates {
		names[i] = d.Name
	}
	pick := pickKeyboard(names)
	for i, d := range candidates {
		if i != pick {
			d.Close()
		}
	}
	if pick < 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoKeyboard, firstErr)
		}
		return nil, ErrNoKeyboard
	}
	return candidates[pick], nil
}

// sortDevicePaths orders eventN nodes numerically so event2 precedes event10.
func sortDevicePaths(paths []string) {
	num := func(p string) int {
		n, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(p), "event"))
		if err != nil {
			return int(^uint(0) >> 1)
		}
		return n
	}
	sort.SliceStable(paths, func(i, j int) bool { return num(paths[i]) < num(paths[j]) })
}

// Read decodes input events until ctx is done, closing the device to unblock
// the pending read.
func (d *Device) Read(ctx context.Context, out chan<- dispatch.Event) error {
	stop := context.AfterFunc(ctx, func() { d.Close() })
	defer stop()

	buf := make([]byte, eventSize*64)
	for {
		n, err := io.ReadAtLeast(d.f, buf, eventSize)
		for off := 0; off+eventSize <= n; off += eventSize {
			ev, ok := decodeEvent(buf[off : off+eventSize])
			if !ok {
				continue
			}
			if err := send(ctx, out, ev); err != nil {
				return err
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%s: %w", d.Path, err)
		}
	}
}

// decodeEvent converts one struct input_event. SYN frames are dropped.
func decodeEvent(b []byte) (dispatch.Event, bool) {
	typ := binary.NativeEndian.Uint16(b[timevalSize:])
	code := binary.NativeEndian.Uint16(b[timevalSize+2:])
	value := int32(binary.NativeEndian.Uint32(b[timevalSize+4:]))
	switch typ {
	case evSyn:
		return dispatch.Event{}, false
	case evKey:
		ev := dispatch.Event{Kind: dispatch.KindKey, Code: code}
		switch value {
		case keyReleased:
			ev.Phase = dispatch.Up
		case keyPressed:
			ev.Phase = dispatch.Down
		case keyRepeated:
			ev.Phase = dispatch.Down
			ev.Repeat = true
		default:
			ev.Phase = dispatch.Phase(value)
		}
		return ev, true
	default:
		return dispatch.Event{Kind: dispatch.KindOther, Code: code, Phase: dispatch.Phase(value)}, true
	}
}

func (d *Device) Close() error {
	d.closeOnce.Do(func() { d.closeErr = d.f.Close() })
	return d.closeErr
}
