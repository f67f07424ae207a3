package internal

import (
	"fmt"
	"strings"
)

// SelfTestOptions configures RunSelfTest.
type SelfTestOptions struct {
	// Configs lists the configurations to exercise, one block each.
	Configs []Config
	// Rounds is the number of strings generated per configuration.
	Rounds int
	// Source overrides the system source, e.g. for a seeded run.
	Source Source
	// ShowSecret prints each secret next to its display string.
	ShowSecret bool
	// Pager receives all output lines.
	Pager *Pager
}

// RunSelfTest generates Rounds display strings for each configuration,
// replays every woven copy on the emulated keypad, prints each result, and
// returns the number of failed rounds.
func RunSelfTest(opts SelfTestOptions) int {
	failed := 0
	total := 0
	p := opts.Pager
	p.Start()

	for ci, cfg := range opts.Configs {
		title := fmt.Sprintf("Config %d: length=%d mode=%s schedule=%s", ci+1, cfg.Length, cfg.Mode, cfg.ResolvedSchedule().Kind)
		if !p.Println(Style(title, Bold, Purple)) {
			return failed
		}

		var o *Obfuscator
		var err error
		if opts.Source != nil {
			o, err = New(cfg, WithSource(opts.Source))
		} else {
			o, err = New(cfg)
		}
		if err != nil {
			failed += opts.Rounds
			total += opts.Rounds
			if !p.Println(Style("  error: "+err.Error(), Red)) {
				return failed
			}
			continue
		}

		del := cfg.DeleteRune()
		for i := 0; i < opts.Rounds; i++ {
			total++
			res, err := o.Generate()
			if err == nil {
				err = Verify(res, del, cfg.MaxRun)
			}

			line := "  " + Highlight(res.Display, del)
			if opts.ShowSecret {
				line += "  " + Style("("+res.Secret+")", Gray)
			}
			if err != nil {
				failed++
				line = "  " + Style("FAILED", Bold, Red) + " " + err.Error()
			}
			if !p.Println(line) {
				return failed
			}
		}
	}

	summary := []string{
		Style("Total rounds:", Bold) + fmt.Sprintf(" %d", total),
		Style("Failed:", Bold) + fmt.Sprintf(" %d", failed),
	}
	result := Style("PASSED", Bold, Green)
	if failed > 0 {
		result = Style("FAILED", Bold, Red)
	}
	p.Println(strings.Join(summary, ", ") + "  " + result)
	return failed
}

// SelfTestConfigs returns the configurations exercised by --self-test: each
// built-in profile in both modes, on top of base.
func SelfTestConfigs(base Config) []Config {
	var out []Config
	for _, name := range ProfileNames() {
		for _, mode := range []Mode{ModeDoubled, ModeTwice} {
			cfg := base
			cfg.Length = Profiles[name].Length
			cfg.Mode = mode
			cfg.Policy = ""
			cfg.Schedule.Kind = ""
			out = append(out, cfg)
		}
	}
	return out
}
