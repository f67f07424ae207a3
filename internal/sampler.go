package internal

import "math"

// Sampler provides the randomness primitives used by the weave: uniform
// reals, integer intervals, and index-uniform sampling over an alphabet.
// It is explicitly not a security-strength generator.
type Sampler struct {
	src Source
}

// NewSampler wraps src.
func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// UniformUnit returns a real in [0,1). Out-of-range draws from the
// underlying Source are clamped into the interval.
func (s *Sampler) UniformUnit() float64 {
	u := s.src.Float64()
	switch {
	case math.IsNaN(u) || u < 0:
		return 0
	case u >= 1:
		return math.Nextafter(1, 0)
	}
	return u
}

// Index returns an integer in [0,n). n must be positive.
func (s *Sampler) Index(n int) int {
	idx := int(s.UniformUnit() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// IntervalRandom returns floor(u*(max-min)+min) for a fresh draw u, i.e. an
// integer in [floor(min), max). Bounds are reals so that halves of odd
// lengths keep their fraction.
func (s *Sampler) IntervalRandom(min, max float64) int {
	return int(math.Floor(s.UniformUnit()*(max-min) + min))
}

// Pick returns one character drawn uniformly from alphabet.
func (s *Sampler) Pick(alphabet []rune) rune {
	return alphabet[s.Index(len(alphabet))]
}

// Sample returns n characters drawn independently from alphabet.
func (s *Sampler) Sample(alphabet []rune, n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = s.Pick(alphabet)
	}
	return out
}
