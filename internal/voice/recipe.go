package voice

import (
	"math"

	"github.com/cbegin/keyclack-go/internal/dsp"
)

// Press: switch click, bottom-out thock, case resonance and a noise pop.
const (
	pressDuration  = 0.08
	pressVolume    = 0.7
	pressPitchVar  = 0.08
	pressJitterMax = 10 // samples at |v| = 1

	pressClickOffset = 5
	pressClickDur    = 0.003
	pressThockOffset = 0.008 // seconds
	pressThockDur    = 0.045
	pressResDur      = 0.05
	pressPopDur      = 0.001
)

// Release: spring return, reset click and a soft thump.
const (
	releaseDuration = 0.05
	releaseVolume   = 0.45
	releasePitchVar = 0.06

	releaseSpringDur   = 0.015
	releaseClickOffset = 0.003
	releaseClickDur    = 0.008
	releaseThumpDur    = 0.02
)

// Space: deep thock, stabilizer wire click, case boom and an impact pop.
const (
	spaceDuration = 0.12
	spaceVolume   = 0.75

	spaceThockDur   = 0.07
	spaceStabOffset = 0.002
	spaceStabDur    = 0.012
	spaceBoomDur    = 0.08
	spacePopDur     = 0.002
)

// RecipeFor returns the layer layout of p for variation v.
func RecipeFor(p Profile, v float64) Recipe {
	v = clampVariation(v)
	switch p {
	case Release:
		return releaseRecipe(v)
	case Space:
		return spaceRecipe()
	default:
		return pressRecipe(v)
	}
}

func pressRecipe(v float64) Recipe {
	pitch := 1 + v*pressPitchVar
	jitter := int(math.Abs(v) * pressJitterMax)
	return Recipe{
		Profile:  Press,
		Duration: pressDuration,
		Volume:   pressVolume,
		Layers: []Layer{
			{
				Name:     "click",
				Start:    pressClickOffset + jitter,
				Length:   dsp.Samples(SampleRate, pressClickDur),
				Duration: pressClickDur,
				Freq:     4500 * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.6}, {Mul: 1.5, Weight: 0.3}, {Mul: 2.2, Weight: 0.1}},
				Env:      dsp.ExpDecay{K: 1500},
				Mix:      0.5,
			},
			{
				Name:     "thock",
				Start:    dsp.Samples(SampleRate, pressThockOffset) + jitter,
				Length:   dsp.Samples(SampleRate, pressThockDur),
				Duration: pressThockDur,
				Freq:     (280 + v*20) * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.5}, {Mul: 1.8, Weight: 0.25}, {Mul: 3.2, Weight: 0.15}},
				Noise:    0.1,
				Env:      dsp.ImpactEnv{K1: 80, K2: 800},
				Mix:      0.7,
			},
			{
				Name:     "resonance",
				Length:   dsp.Samples(SampleRate, pressResDur),
				Duration: pressResDur,
				Freq:     (180 + v*10) * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.4}, {Mul: 1.5, Weight: 0.3}},
				Env:      dsp.ExpDecay{K: 60},
				Mix:      0.25,
			},
			popLayer(pressPopDur, 8, 0.4),
		},
	}
}

func releaseRecipe(v float64) Recipe {
	pitch := 1 + v*releasePitchVar
	return Recipe{
		Profile:  Release,
		Duration: releaseDuration,
		Volume:   releaseVolume,
		Layers: []Layer{
			{
				Name:     "spring",
				Length:   dsp.Samples(SampleRate, releaseSpringDur),
				Duration: releaseSpringDur,
				Freq:     3200 * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.4}, {Mul: 0.7, Weight: 0.3}},
				Env:      dsp.ExpDecay{K: 400},
				Mix:      0.3,
			},
			{
				Name:     "reset",
				Start:    dsp.Samples(SampleRate, releaseClickOffset),
				Length:   dsp.Samples(SampleRate, releaseClickDur),
				Duration: releaseClickDur,
				Freq:     2800 * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.5}, {Mul: 1.3, Weight: 0.3}},
				Noise:    0.2,
				Env:      dsp.ExpDecay{K: 300},
				Mix:      0.4,
			},
			{
				Name:     "thump",
				Length:   dsp.Samples(SampleRate, releaseThumpDur),
				Duration: releaseThumpDur,
				Freq:     200 * pitch,
				Partials: []dsp.Partial{{Mul: 1, Weight: 1}},
				Env:      dsp.ExpDecay{K: 150},
				Mix:      0.2,
			},
		},
	}
}

func spaceRecipe() Recipe {
	return Recipe{
		Profile:  Space,
		Duration: spaceDuration,
		Volume:   spaceVolume,
		Layers: []Layer{
			{
				Name:     "thock",
				Length:   dsp.Samples(SampleRate, spaceThockDur),
				Duration: spaceThockDur,
				Freq:     150,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.5}, {Mul: 220.0 / 150, Weight: 0.3}, {Mul: 380.0 / 150, Weight: 0.15}},
				Noise:    0.05,
				Env:      dsp.ImpactEnv{K1: 45, K2: 600},
				Mix:      0.8,
			},
			{
				Name:     "stabilizer",
				Start:    dsp.Samples(SampleRate, spaceStabOffset),
				Length:   dsp.Samples(SampleRate, spaceStabDur),
				Duration: spaceStabDur,
				Freq:     2200,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.4}, {Mul: 3100.0 / 2200, Weight: 0.3}},
				Noise:    0.3,
				Env:      dsp.ExpDecay{K: 250},
				Mix:      0.35,
			},
			{
				Name:     "boom",
				Length:   dsp.Samples(SampleRate, spaceBoomDur),
				Duration: spaceBoomDur,
				Freq:     100,
				Partials: []dsp.Partial{{Mul: 1, Weight: 0.6}, {Mul: 1.6, Weight: 0.4}},
				Env:      dsp.ExpDecay{K: 40},
				Mix:      0.3,
			},
			popLayer(spacePopDur, 6, 0.5),
		},
	}
}

// popLayer is a pure-noise transient at t=0 that decays by e^-decay over
// its whole length.
func popLayer(dur, decay, mix float64) Layer {
	return Layer{
		Name:     "pop",
		Length:   dsp.Samples(SampleRate, dur),
		Duration: dur,
		Noise:    1,
		Env:      dsp.ExpDecay{K: decay / dur},
		Mix:      mix,
	}
}
