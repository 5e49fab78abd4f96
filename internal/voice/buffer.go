package voice

import (
	"encoding/binary"
	"time"
)

// Buffer is one rendered mono s16 variant. Samples must not be modified
// after Render returns; buffers are shared across playback goroutines.
type Buffer struct {
	Profile Profile
	Samples []int16
}

func (b Buffer) Duration() time.Duration {
	return time.Duration(len(b.Samples)) * time.Second / SampleRate
}

// Peak returns the largest absolute sample value.
func (b Buffer) Peak() int {
	peak := 0
	for _, s := range b.Samples {
		a := int(s)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	return peak
}

// PCM16LE encodes the samples as mono little-endian s16.
func (b Buffer) PCM16LE() []byte {
	out := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// Stereo16LE duplicates each sample into left and right channels.
func (b Buffer) Stereo16LE() []byte {
	out := make([]byte, len(b.Samples)*4)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint16(out[i*4:], uint16(s))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(s))
	}
	return out
}
