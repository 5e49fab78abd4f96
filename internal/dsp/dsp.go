package dsp

import (
	"math"
	"math/rand/v2"
)

const twoPi = math.Pi * 2

// Partial is one sinusoid of an additive oscillator, as a multiple of the
// fundamental and a mix weight.
type Partial struct {
	Mul    float64
	Weight float64
}

// Samples converts a duration in seconds to a whole sample count, truncating.
func Samples(sampleRate int, seconds float64) int {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(float64(sampleRate) * seconds)
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}

// Decay is e^(-k·t).
func Decay(t, k float64) float64 {
	return math.Exp(-k * t)
}

// AttackDecay is e^(-k1·t)·(1 − e^(-k2·t)). With k2 ≫ k1 it rises quickly to
// a peak and then falls at rate k1.
func AttackDecay(t, k1, k2 float64) float64 {
	return math.Exp(-k1*t) * (1 - math.Exp(-k2*t))
}

// Additive evaluates the weighted sum of sinusoids at freq·Mul for time t.
func Additive(freq float64, partials []Partial, t float64) float64 {
	var sum float64
	for _, p := range partials {
		sum += p.Weight * math.Sin(twoPi*freq*p.Mul*t)
	}
	return sum
}

// Noise draws a uniform sample in [-1, 1).
func Noise(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}
