package internal

// Class partitions output characters into the two kinds the run guard
// tracks.
type Class int

const (
	// ClassAlphabet covers every character that can appear in a secret.
	ClassAlphabet Class = iota
	// ClassDelete is the delete sentinel alone.
	ClassDelete
)

func (c Class) String() string {
	if c == ClassDelete {
		return "delete"
	}
	return "alphabet"
}

// classOf reports the class of r given the delete sentinel. Anything that
// is not the sentinel counts as alphabet.
func classOf(r, del rune) Class {
	if r == del {
		return ClassDelete
	}
	return ClassAlphabet
}

// WouldExceedRun reports whether appending one more character of class c
// to output would make the trailing run of that class longer than k. A run
// may reach k but never pass it.
func WouldExceedRun(output []rune, del rune, c Class, k int) bool {
	if len(output) < k {
		return false
	}
	for _, r := range output[len(output)-k:] {
		if classOf(r, del) != c {
			return false
		}
	}
	return true
}

// LongestRun returns the longest run of class c anywhere in seq.
func LongestRun(seq []rune, del rune, c Class) int {
	best, cur := 0, 0
	for _, r := range seq {
		if classOf(r, del) == c {
			cur++
			if cur > best {
				best = cur
			}
			continue
		}
		cur = 0
	}
	return best
}
