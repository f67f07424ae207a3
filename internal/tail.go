package internal

// Tail weaves a freshly sampled secret, unrelated to the real one, and cuts
// the result to IntervalRandom(L/2, 2L) characters, never fewer than
// ceil(L/2). If the weave is shorter than that it is used whole. When doubled is set the fresh secret
// is doubled before weaving, the same shape as the doubled-mode copy.
func (w *Weaver) Tail(policy ReplacePolicy, doubled bool) ([]rune, error) {
	fresh := w.rng.Sample(w.alphabet, w.secretLen)
	if doubled {
		fresh = append(fresh, fresh...)
	}
	limit := w.rng.IntervalRandom(float64(w.secretLen)/2, float64(w.secretLen)*2)
	woven, err := w.Weave(fresh, policy)
	if err != nil {
		return nil, err
	}
	if floor := (w.secretLen + 1) / 2; limit < floor {
		limit = floor
	}
	if len(woven) > limit {
		woven = woven[:limit]
	}
	return woven, nil
}
