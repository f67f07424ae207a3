package internal

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// SeedPolicy defines how a seed phrase becomes the 32-byte key of a
// reproducible Source.
//   - KDF "argon2id" (default) stretches the phrase so each guess at it is
//     expensive.
//   - KDF "none" hashes the phrase once with SHA-256.
type SeedPolicy struct {
	KDF         string // "argon2id" or "none"
	KDFMemMB    uint32 // memory in MB
	KDFTime     uint32 // iterations
	KDFParallel uint8  // parallelism
}

// DefaultSeedPolicy returns Argon2id parameters sized for an interactive
// CLI.
func DefaultSeedPolicy() SeedPolicy {
	return SeedPolicy{
		KDF:         "argon2id",
		KDFMemMB:    64,
		KDFTime:     3,
		KDFParallel: 1,
	}
}

// seedSalt domain-separates derived seeds from other uses of the phrase.
var seedSalt = []byte("pinweave/v1/seed/domain-sep")

// DeriveSeed turns phrase into a 32-byte seed under policy. The same phrase
// and policy always give the same seed.
func DeriveSeed(phrase string, policy SeedPolicy) ([32]byte, error) {
	var seed [32]byte
	if strings.TrimSpace(phrase) == "" {
		return seed, fmt.Errorf("%w: seed phrase is empty", ErrInvalidConfig)
	}

	switch strings.ToLower(strings.TrimSpace(policy.KDF)) {
	case "", "argon2id":
		mem := policy.KDFMemMB
		if mem == 0 {
			mem = 64
		}
		iters := policy.KDFTime
		if iters == 0 {
			iters = 3
		}
		par := policy.KDFParallel
		if par == 0 {
			par = 1
		}
		derived := argon2.IDKey([]byte(phrase), seedSalt, iters, mem*1024, par, 32)
		seed = sha256.Sum256(derived)
		return seed, nil

	case "none":
		h := sha256.New()
		h.Write(seedSalt)
		h.Write([]byte(phrase))
		copy(seed[:], h.Sum(nil))
		return seed, nil

	default:
		return seed, fmt.Errorf("%w: unknown KDF %q (supported: argon2id, none)", ErrInvalidConfig, policy.KDF)
	}
}

// NewSeededSource returns a deterministic Source for phrase.
func NewSeededSource(phrase string, policy SeedPolicy) (Source, error) {
	seed, err := DeriveSeed(phrase, policy)
	if err != nil {
		return nil, err
	}
	return NewStreamSource(seed), nil
}
