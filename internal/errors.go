package internal

import "errors"

var (
	// ErrInvalidConfig is returned when alphabet, delete sentinel, length or
	// schedule parameters make no sense together.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrGenerationExhausted is returned when a weave pass hits the
	// configured iteration ceiling before consuming its input.
	ErrGenerationExhausted = errors.New("generation exhausted")

	// ErrInvalidSecret is returned for a caller-supplied secret of the
	// wrong length or with characters outside the alphabet.
	ErrInvalidSecret = errors.New("invalid secret")

	// ErrVerifyFailed is returned when a woven segment does not replay to
	// the characters it was built from.
	ErrVerifyFailed = errors.New("verification failed")
)
