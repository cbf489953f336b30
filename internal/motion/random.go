package motion

import (
	"math/rand"
	"time"
)

// Rand is the random source used by every generator in this package.
// *math/rand.Rand satisfies it; tests pass a seeded instance.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `mapstructure:"min" yaml:"min"`
	Max int `mapstructure:"max" yaml:"max"`
}

// Valid reports whether Min <= Max.
func (r IntRange) Valid() bool {
	return r.Min <= r.Max
}

// FloatRange is a closed float range, used for seconds and factors.
type FloatRange struct {
	Min float64 `mapstructure:"min" yaml:"min"`
	Max float64 `mapstructure:"max" yaml:"max"`
}

// Valid reports whether Min <= Max.
func (r FloatRange) Valid() bool {
	return r.Min <= r.Max
}

// uniformInt draws an integer in [min, max].
func uniformInt(rnd Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rnd.Intn(max-min+1)
}

// uniformFloat draws a float in [min, max).
func uniformFloat(rnd Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rnd.Float64()*(max-min)
}

// seconds converts fractional seconds to a Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// IntIn draws an integer from r, bounds included.
func IntIn(rnd Rand, r IntRange) int {
	return uniformInt(rnd, r.Min, r.Max)
}

// FloatIn draws a float from r.
func FloatIn(rnd Rand, r FloatRange) float64 {
	return uniformFloat(rnd, r.Min, r.Max)
}
