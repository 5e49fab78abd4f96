package voice

import (
	"math"
	"math/rand/v2"

	"github.com/cbegin/keyclack-go/internal/dsp"
)

const (
	SampleRate = 44100
	Channels   = 1

	// Epsilon floors the normalization divisor so silent buffers stay silent.
	Epsilon = 0.001

	maxSample = 32767
)

type Profile int

const (
	Press Profile = iota
	Release
	Space
)

// Profiles lists every profile in bank order.
var Profiles = []Profile{Press, Release, Space}

func (p Profile) String() string {
	switch p {
	case Press:
		return "press"
	case Release:
		return "release"
	case Space:
		return "space"
	default:
		return "unknown"
	}
}

// Layer is one enveloped contribution to a buffer. Its time axis spans
// Duration seconds over Length samples starting at sample Start.
type Layer struct {
	Name     string
	Start    int
	Length   int
	Duration float64
	Freq     float64
	Partials []dsp.Partial
	Noise    float64 // uniform noise weight mixed under the partials
	Env      dsp.Envelope
	Mix      float64
}

// accumulate adds the layer into dst. Samples past either end of dst are
// dropped.
func (l Layer) accumulate(dst []float64, rng *rand.Rand) {
	ts := dsp.Linspace(0, l.Duration, l.Length)
	for i, t := range ts {
		idx := l.Start + i
		if idx < 0 {
			continue
		}
		if idx >= len(dst) {
			break
		}
		s := dsp.Additive(l.Freq, l.Partials, t)
		if l.Noise != 0 {
			s += l.Noise * dsp.Noise(rng)
		}
		dst[idx] += s * l.Env.At(t) * l.Mix
	}
}

// Recipe is the fixed layer layout of a profile for one variation draw.
type Recipe struct {
	Profile  Profile
	Duration float64
	Volume   float64
	Layers   []Layer
}

// Length returns the buffer size in samples.
func (r Recipe) Length() int {
	return BufferLength(r.Duration)
}

// BufferLength is round(SampleRate × seconds).
func BufferLength(seconds float64) int {
	return int(math.Round(SampleRate * seconds))
}

// Render synthesizes one buffer of profile p with variation v in [-1, 1].
// Values outside that range are clamped and NaN counts as 0. Space ignores v.
func Render(p Profile, v float64, rng *rand.Rand) Buffer {
	return RenderRecipe(RecipeFor(p, v), rng)
}

// RenderRecipe sums the recipe's layers, normalizes to the recipe volume and
// quantizes to 16 bits.
func RenderRecipe(r Recipe, rng *rand.Rand) Buffer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	acc := make([]float64, r.Length())
	for _, l := range r.Layers {
		l.accumulate(acc, rng)
	}
	Normalize(acc, r.Volume)
	return Buffer{Profile: r.Profile, Samples: Quantize(acc)}
}

// Normalize scales buf in place so its peak magnitude equals volume. A buffer
// whose peak is below Epsilon is scaled by volume/Epsilon instead.
func Normalize(buf []float64, volume float64) {
	var peak float64
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	// Flooring rather than adding Epsilon keeps a second pass within 1 LSB.
	scale := volume / math.Max(peak, Epsilon)
	for i := range buf {
		buf[i] *= scale
	}
}

// Quantize clips to [-1, 1] and truncates to signed 16-bit.
func Quantize(buf []float64) []int16 {
	out := make([]int16, len(buf))
	for i, s := range buf {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		} else if math.IsNaN(s) {
			s = 0
		}
		out[i] = int16(s * maxSample)
	}
	return out
}

func clampVariation(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
