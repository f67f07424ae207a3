package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Mode selects how woven copies are assembled into the display string.
type Mode string

const (
	// ModeDoubled concatenates the secret with itself and weaves once.
	ModeDoubled Mode = "doubled"
	// ModeTwice weaves the secret twice independently.
	ModeTwice Mode = "twice"
)

// ScheduleKind names a probability schedule.
type ScheduleKind string

const (
	// ScheduleAdaptive uses Normal until the output passes 2·L, then Big.
	ScheduleAdaptive ScheduleKind = "adaptive"
	// ScheduleStatic always uses Static.
	ScheduleStatic ScheduleKind = "static"
)

// Schedule gives the probability of taking the consume branch on each
// iteration of a weave. Higher values give shorter output. An empty Kind
// takes the schedule paired with the Config's Mode.
type Schedule struct {
	Kind   ScheduleKind `toml:"kind" yaml:"kind" json:"kind"`
	Static float64      `toml:"static" yaml:"static" json:"static"`
	Normal float64      `toml:"normal" yaml:"normal" json:"normal"`
	Big    float64      `toml:"big" yaml:"big" json:"big"`
}

// Threshold returns the consume probability for an output of outLen
// characters built for a secret of secretLen characters.
func (s Schedule) Threshold(outLen, secretLen int) float64 {
	if s.Kind == ScheduleStatic {
		return s.Static
	}
	if outLen > 2*secretLen {
		return s.Big
	}
	return s.Normal
}

// Config is the immutable parameter set for one Obfuscator.
type Config struct {
	Alphabet string `toml:"alphabet" yaml:"alphabet" json:"alphabet"`
	Delete   string `toml:"delete" yaml:"delete" json:"delete"`
	Length   int    `toml:"length" yaml:"length" json:"length"`
	Mode     Mode   `toml:"mode" yaml:"mode" json:"mode"`

	// Policy overrides the replace policy implied by Mode; empty keeps it.
	Policy   string   `toml:"policy" yaml:"policy" json:"policy"`
	Schedule Schedule `toml:"schedule" yaml:"schedule" json:"schedule"`

	MaxRun int `toml:"max_run" yaml:"max_run" json:"max_run"`
	// MaxIterations caps a single weave pass; 0 means unbounded.
	MaxIterations int  `toml:"max_iterations" yaml:"max_iterations" json:"max_iterations"`
	Debug         bool `toml:"debug" yaml:"debug" json:"debug"`
}

// DefaultConfig returns the iphone profile in doubled mode. Schedule kind
// and replace policy follow the mode.
func DefaultConfig() Config {
	return Config{
		Alphabet: DigitAlphabet,
		Delete:   string(DefaultDelete),
		Length:   4,
		Mode:     ModeDoubled,
		Schedule: Schedule{
			Static: 0.7,
			Normal: 0.5,
			Big:    0.75,
		},
		MaxRun:        3,
		MaxIterations: 1 << 20,
	}
}

// Validate checks the construction contract. Every failure wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Alphabet == "" {
		return fmt.Errorf("%w: alphabet is empty", ErrInvalidConfig)
	}
	if !utf8.ValidString(c.Alphabet) {
		return fmt.Errorf("%w: alphabet must be valid UTF-8", ErrInvalidConfig)
	}
	seen := make(map[rune]bool)
	for _, r := range c.Alphabet {
		if seen[r] {
			return fmt.Errorf("%w: alphabet contains %q twice", ErrInvalidConfig, r)
		}
		seen[r] = true
	}
	if utf8.RuneCountInString(c.Delete) != 1 {
		return fmt.Errorf("%w: delete must be exactly one character, got %q", ErrInvalidConfig, c.Delete)
	}
	if seen[c.DeleteRune()] {
		return fmt.Errorf("%w: delete character %q is part of the alphabet", ErrInvalidConfig, c.Delete)
	}
	if c.Length < 1 {
		return fmt.Errorf("%w: length must be positive, got %d", ErrInvalidConfig, c.Length)
	}
	if c.MaxRun < 1 {
		return fmt.Errorf("%w: max_run must be positive, got %d", ErrInvalidConfig, c.MaxRun)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must not be negative", ErrInvalidConfig)
	}
	switch c.Mode {
	case ModeDoubled, ModeTwice:
	default:
		return fmt.Errorf("%w: unknown mode %q (supported: doubled, twice)", ErrInvalidConfig, c.Mode)
	}
	if _, err := c.ReplacePolicy(); err != nil {
		return err
	}
	sch := c.ResolvedSchedule()
	switch sch.Kind {
	case ScheduleStatic:
		if err := checkProbability("schedule.static", sch.Static); err != nil {
			return err
		}
	case ScheduleAdaptive:
		if err := checkProbability("schedule.normal", sch.Normal); err != nil {
			return err
		}
		if err := checkProbability("schedule.big", sch.Big); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown schedule %q (supported: adaptive, static)", ErrInvalidConfig, sch.Kind)
	}
	return nil
}

// A zero probability would never consume input, so the weave could not end.
func checkProbability(name string, p float64) error {
	if !(p > 0 && p <= 1) {
		return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidConfig, name, p)
	}
	return nil
}

// AlphabetRunes returns the alphabet as an ordered rune slice.
func (c Config) AlphabetRunes() []rune {
	return []rune(c.Alphabet)
}

// DeleteRune returns the delete sentinel.
func (c Config) DeleteRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delete)
	return r
}

// ReplacePolicy resolves the policy for the woven copies: the explicit
// Policy field when set, otherwise the one paired with Mode.
func (c Config) ReplacePolicy() (ReplacePolicy, error) {
	if strings.TrimSpace(c.Policy) != "" {
		return ParseReplacePolicy(c.Policy)
	}
	if c.Mode == ModeTwice {
		return PolicyInline, nil
	}
	return PolicyPostPass, nil
}

// ResolvedSchedule returns Schedule with an empty Kind filled in from Mode:
// static for twice, adaptive for doubled.
func (c Config) ResolvedSchedule() Schedule {
	s := c.Schedule
	s.Kind = ScheduleKind(strings.ToLower(strings.TrimSpace(string(s.Kind))))
	if s.Kind != "" {
		return s
	}
	if c.Mode == ModeTwice {
		s.Kind = ScheduleStatic
	} else {
		s.Kind = ScheduleAdaptive
	}
	return s
}

// ApplyEnvOverrides lets PINWEAVE_* variables replace file values. A value
// that cannot be parsed fails with ErrInvalidConfig naming the variable.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("PINWEAVE_ALPHABET"); v != "" {
		c.Alphabet = v
	}
	if v := os.Getenv("PINWEAVE_DELETE"); v != "" {
		if r, err := ResolveDelete(v); err == nil {
			c.Delete = string(r)
		} else {
			c.Delete = v
		}
	}
	if v := os.Getenv("PINWEAVE_LENGTH"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: PINWEAVE_LENGTH must be an integer", ErrInvalidConfig)
		}
		c.Length = n
	}
	if v := os.Getenv("PINWEAVE_MODE"); v != "" {
		c.Mode = Mode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("PINWEAVE_DEBUG"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: PINWEAVE_DEBUG must be a boolean, got %q", ErrInvalidConfig, v)
		}
		c.Debug = b
	}
	return nil
}

// LoadConfig reads a TOML or YAML file over DefaultConfig, applies
// environment overrides and validates the result. A missing file yields
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := decodeConfig(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		// a failed TOML pass must not leak fields into the YAML one
		asTOML := *cfg
		_, tomlErr := toml.Decode(string(data), &asTOML)
		if tomlErr == nil {
			*cfg = asTOML
			return nil
		}
		asYAML := *cfg
		if err := yaml.Unmarshal(data, &asYAML); err != nil {
			return fmt.Errorf("parse config: not TOML (%v) or YAML: %w", tomlErr, err)
		}
		*cfg = asYAML
	}
	return nil
}
