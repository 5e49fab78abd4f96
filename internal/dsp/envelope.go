package dsp

// Envelope is a time-varying amplitude multiplier, t in seconds from the
// start of a layer.
type Envelope interface {
	At(t float64) float64
}

// ExpDecay is the exponential decay envelope used for ringing layers.
type ExpDecay struct {
	K float64
}

func (e ExpDecay) At(t float64) float64 { return Decay(t, e.K) }

// ImpactEnv rises at rate K2 and falls at rate K1. Used where an impact
// builds before it dissipates.
type ImpactEnv struct {
	K1 float64
	K2 float64
}

func (e ImpactEnv) At(t float64) float64 { return AttackDecay(t, e.K1, e.K2) }
