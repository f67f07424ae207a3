package internal

// staticConfig returns the default digits/☒ config with a static schedule
// of p and run cap k.
func staticConfig(length int, p float64, k int) Config {
	cfg := DefaultConfig()
	cfg.Length = length
	cfg.MaxRun = k
	cfg.Schedule.Kind = ScheduleStatic
	cfg.Schedule.Static = p
	return cfg
}

// zeroSource always draws 0: every consume check passes and every sampled
// character is the first of the alphabet.
func zeroSource() Source {
	return NewScriptedSource()
}

func seeded(phrase string) Source {
	src, err := NewSeededSource(phrase, SeedPolicy{KDF: "none"})
	if err != nil {
		panic(err)
	}
	return src
}
