package internal

import (
	"fmt"
	"slices"
)

// Replay types seq on an emulated passcode keypad and returns what ends up
// in the entry field. The delete sentinel erases the last typed character;
// on an empty field it does nothing.
func Replay(seq []rune, del rune) []rune {
	buf := make([]rune, 0, len(seq))
	for _, r := range seq {
		if r == del {
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
			continue
		}
		buf = append(buf, r)
	}
	return buf
}

// Verify checks every woven segment of res: it must replay to exactly the
// characters it was built from, and no class run may be longer than k.
// Errors never include secret material.
func Verify(res Result, del rune, k int) error {
	if len(res.Woven) == 0 {
		return fmt.Errorf("%w: no woven copies", ErrVerifyFailed)
	}
	for i, seg := range res.Woven {
		if !slices.Equal(Replay(seg.Output, del), seg.Input) {
			return fmt.Errorf("%w: copy %d does not replay to its input", ErrVerifyFailed, i+1)
		}
		if n := LongestRun(seg.Output, del, ClassAlphabet); n > k {
			return fmt.Errorf("%w: copy %d has a digit run of %d (max %d)", ErrVerifyFailed, i+1, n, k)
		}
		if n := LongestRun(seg.Output, del, ClassDelete); n > k {
			return fmt.Errorf("%w: copy %d has a delete run of %d (max %d)", ErrVerifyFailed, i+1, n, k)
		}
	}
	return nil
}

// GenerateVerified generates a result and immediately replays it. If the
// check fails no result is returned.
func (o *Obfuscator) GenerateVerified() (Result, error) {
	res, err := o.Generate()
	if err != nil {
		return Result{}, err
	}
	if err := Verify(res, o.cfg.DeleteRune(), o.cfg.MaxRun); err != nil {
		return Result{}, err
	}
	return res, nil
}
