package internal

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// Source supplies uniform draws in [0,1). Implementations need not be
// cryptographically strong and are not safe for concurrent use.
type Source interface {
	Float64() float64
}

// streamSource turns a ChaCha20 keystream into float draws. The same seed
// always yields the same sequence of draws.
type streamSource struct {
	c   *chacha20.Cipher
	buf [8]byte
}

// NewStreamSource returns a deterministic Source keyed by seed.
func NewStreamSource(seed [32]byte) Source {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// key and nonce sizes are fixed above
		panic(fmt.Sprintf("chacha20 init: %v", err))
	}
	return &streamSource{c: c}
}

// NewSystemSource returns a Source keyed from the operating system's
// random number generator.
func NewSystemSource() (Source, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("read system randomness: %w", err)
	}
	return NewStreamSource(seed), nil
}

func (s *streamSource) Float64() float64 {
	clear(s.buf[:])
	s.c.XORKeyStream(s.buf[:], s.buf[:])
	// top 53 bits, exactly representable in a float64 mantissa
	return float64(binary.LittleEndian.Uint64(s.buf[:])>>11) / (1 << 53)
}

// ScriptedSource replays a fixed list of draws, wrapping around when it
// reaches the end. It makes every weave fully deterministic and is used by
// the self-test harness and unit tests.
type ScriptedSource struct {
	draws []float64
	next  int
}

// NewScriptedSource returns a ScriptedSource over draws. With no draws it
// always returns 0.
func NewScriptedSource(draws ...float64) *ScriptedSource {
	return &ScriptedSource{draws: append([]float64(nil), draws...)}
}

func (s *ScriptedSource) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

// Consumed reports how many draws have been taken so far.
func (s *ScriptedSource) Consumed() int {
	return s.next
}
