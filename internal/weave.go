package internal

import (
	"fmt"
	"strings"
)

// ReplacePolicy controls how digits that the keypad will later erase are
// disguised in the woven output.
type ReplacePolicy int

const (
	// PolicyNone leaves the construction untouched.
	PolicyNone ReplacePolicy = iota
	// PolicyPostPass smears erased digits in one backward scan after the
	// weave finishes.
	PolicyPostPass
	// PolicyInline overwrites a digit's slot with a random one at the
	// moment it is retracted.
	PolicyInline
)

func (p ReplacePolicy) String() string {
	switch p {
	case PolicyPostPass:
		return "post-pass"
	case PolicyInline:
		return "inline"
	default:
		return "none"
	}
}

// ParseReplacePolicy accepts "none", "post-pass" and "inline".
func ParseReplacePolicy(s string) (ReplacePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return PolicyNone, nil
	case "post-pass", "postpass", "post":
		return PolicyPostPass, nil
	case "inline":
		return PolicyInline, nil
	}
	return PolicyNone, fmt.Errorf("%w: unknown policy %q (supported: none, post-pass, inline)", ErrInvalidConfig, s)
}

// Branch is the outcome of one weave iteration.
type Branch int

const (
	BranchBlocked Branch = iota
	BranchConsume
	BranchRetract
)

func (b Branch) String() string {
	switch b {
	case BranchConsume:
		return "consume"
	case BranchRetract:
		return "retract"
	default:
		return "blocked"
	}
}

// Step describes the state after one iteration. Output aliases the weave's
// buffer and is only valid for the duration of the callback.
type Step struct {
	Iteration int
	Branch    Branch
	Pending   int
	Undo      int
	Output    []rune
}

// TraceFunc observes every iteration of a weave pass.
type TraceFunc func(Step)

// undoEntry is a secret character that is currently "typed" and may be
// retracted, together with the output slot it was written to. Slots are
// only meaningful within the pass that produced them.
type undoEntry struct {
	ch   rune
	slot int
}

// Weaver interleaves secret characters with delete sentinels.
//
// Each iteration draws r. If r is below the schedule threshold and another
// alphabet character would not push the trailing alphabet run past K, the
// front pending character is emitted and pushed on the undo stack.
// Otherwise, if another sentinel would not push the trailing delete run
// past K, the top of the undo stack (if any) goes back to the front of the
// pending queue and a sentinel is emitted. If both are refused nothing
// changes and the next iteration draws again.
//
// len(pending)+len(undo) never changes. A consume shrinks pending by one; a
// retract grows it by at most one and ends the trailing alphabet run, so
// with threshold p > 0 every state reaches a consume with positive
// probability and the loop ends almost surely. Output length has no fixed
// bound.
//
// The undo stack mirrors the keypad buffer exactly: a sentinel always
// erases the last still-typed character. Replaying a finished weave on the
// keypad therefore yields the input.
type Weaver struct {
	alphabet  []rune
	del       rune
	k         int
	secretLen int
	schedule  Schedule
	maxIter   int
	rng       *Sampler
	trace     TraceFunc
}

// NewWeaver builds a Weaver from a validated Config.
func NewWeaver(cfg Config, rng *Sampler, trace TraceFunc) *Weaver {
	return &Weaver{
		alphabet:  cfg.AlphabetRunes(),
		del:       cfg.DeleteRune(),
		k:         cfg.MaxRun,
		secretLen: cfg.Length,
		schedule:  cfg.ResolvedSchedule(),
		maxIter:   cfg.MaxIterations,
		rng:       rng,
		trace:     trace,
	}
}

// Weave runs one pass over input and applies policy. input is not
// modified.
func (w *Weaver) Weave(input []rune, policy ReplacePolicy) ([]rune, error) {
	// front of the queue lives at the end of the slice
	pending := make([]rune, len(input))
	for i, r := range input {
		pending[len(input)-1-i] = r
	}
	undo := make([]undoEntry, 0, len(input))
	output := make([]rune, 0, 4*len(input))

	for iter := 0; len(pending) > 0; iter++ {
		if w.maxIter > 0 && iter >= w.maxIter {
			return nil, fmt.Errorf("%w: %d iterations with %d of %d characters pending",
				ErrGenerationExhausted, iter, len(pending), len(input))
		}

		branch := BranchBlocked
		r := w.rng.UniformUnit()
		if r < w.schedule.Threshold(len(output), w.secretLen) && !WouldExceedRun(output, w.del, ClassAlphabet, w.k) {
			ch := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			output = append(output, ch)
			undo = append(undo, undoEntry{ch: ch, slot: len(output) - 1})
			branch = BranchConsume
		} else if !WouldExceedRun(output, w.del, ClassDelete, w.k) {
			if n := len(undo); n > 0 {
				top := undo[n-1]
				undo = undo[:n-1]
				pending = append(pending, top.ch)
				if policy == PolicyInline {
					output[top.slot] = w.rng.Pick(w.alphabet)
				}
			}
			output = append(output, w.del)
			branch = BranchRetract
		}

		if w.trace != nil {
			w.trace(Step{Iteration: iter, Branch: branch, Pending: len(pending), Undo: len(undo), Output: output})
		}
	}

	if policy == PolicyPostPass {
		w.smear(output)
	}
	return output, nil
}

// smear walks backwards counting sentinels and replaces one digit per
// unmatched sentinel with a random one. Those are exactly the digits the
// keypad erases.
func (w *Weaver) smear(out []rune) {
	erase := 0
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] == w.del {
			erase++
			continue
		}
		if erase > 0 {
			out[i] = w.rng.Pick(w.alphabet)
			erase--
		}
	}
}
