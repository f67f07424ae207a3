package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Segment is one woven copy together with the characters it was built from.
type Segment struct {
	Input  []rune
	Output []rune
}

// Result is one assembled display string and the parts it is made of.
// Secret and the segment inputs are plaintext and must not be shown to
// anyone but the owner.
type Result struct {
	Display string
	Secret  string
	Mode    Mode
	Woven   []Segment
	Tail    []rune
}

// Obfuscator assembles display strings for one configuration. It owns its
// random source and is not safe for concurrent use.
type Obfuscator struct {
	cfg    Config
	policy ReplacePolicy
	rng    *Sampler
	weaver *Weaver
	log    *slog.Logger
}

type options struct {
	src   Source
	log   *slog.Logger
	trace TraceFunc
}

// Option customizes New.
type Option func(*options)

// WithSource replaces the system random source, e.g. with a seeded or
// scripted one for reproducible output.
func WithSource(src Source) Option {
	return func(o *options) { o.src = src }
}

// WithLogger sets the diagnostics logger. Diagnostics include the
// plaintext secret.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTrace observes every weave iteration.
func WithTrace(fn TraceFunc) Option {
	return func(o *options) { o.trace = fn }
}

// New validates cfg and returns an Obfuscator. Invalid parameters fail
// here, before any weaving.
func New(cfg Config, opts ...Option) (*Obfuscator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := cfg.ReplacePolicy()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		src, err := NewSystemSource()
		if err != nil {
			return nil, err
		}
		o.src = src
	}
	if o.log == nil {
		o.log, err = NewLogger(LogConfig{Debug: cfg.Debug})
		if err != nil {
			return nil, err
		}
	}

	rng := NewSampler(o.src)
	return &Obfuscator{
		cfg:    cfg,
		policy: policy,
		rng:    rng,
		weaver: NewWeaver(cfg, rng, o.trace),
		log:    o.log,
	}, nil
}

// Config returns the configuration the Obfuscator was built with.
func (o *Obfuscator) Config() Config {
	return o.cfg
}

// NewSecret samples a secret of the configured length.
func (o *Obfuscator) NewSecret() []rune {
	return o.rng.Sample(o.cfg.AlphabetRunes(), o.cfg.Length)
}

// Create generates a secret and returns only its display string.
func (o *Obfuscator) Create() (string, error) {
	res, err := o.Generate()
	if err != nil {
		return "", err
	}
	return res.Display, nil
}

// CreateWithSecret generates a secret and returns the display string and
// the plaintext secret.
func (o *Obfuscator) CreateWithSecret() (string, string, error) {
	res, err := o.Generate()
	if err != nil {
		return "", "", err
	}
	return res.Display, res.Secret, nil
}

// Generate samples a fresh secret and assembles it.
func (o *Obfuscator) Generate() (Result, error) {
	return o.assemble(o.NewSecret())
}

// ObfuscateSecret assembles a caller-supplied secret. It must have the
// configured length and use only alphabet characters.
func (o *Obfuscator) ObfuscateSecret(secret string) (Result, error) {
	if n := utf8.RuneCountInString(secret); n != o.cfg.Length {
		return Result{}, fmt.Errorf("%w: need %d characters, got %d", ErrInvalidSecret, o.cfg.Length, n)
	}
	for _, r := range secret {
		if !strings.ContainsRune(o.cfg.Alphabet, r) {
			return Result{}, fmt.Errorf("%w: contains a character outside the alphabet", ErrInvalidSecret)
		}
	}
	return o.assemble([]rune(secret))
}

func (o *Obfuscator) assemble(secret []rune) (Result, error) {
	res := Result{Secret: string(secret), Mode: o.cfg.Mode}
	doubled := o.cfg.Mode == ModeDoubled

	if doubled {
		in := make([]rune, 0, 2*len(secret))
		in = append(append(in, secret...), secret...)
		out, err := o.weaver.Weave(in, o.policy)
		if err != nil {
			return Result{}, fmt.Errorf("weave: %w", err)
		}
		res.Woven = append(res.Woven, Segment{Input: in, Output: out})
	} else {
		for i := 0; i < 2; i++ {
			out, err := o.weaver.Weave(secret, o.policy)
			if err != nil {
				return Result{}, fmt.Errorf("weave copy %d: %w", i+1, err)
			}
			res.Woven = append(res.Woven, Segment{Input: secret, Output: out})
		}
	}

	tail, err := o.weaver.Tail(o.policy, doubled)
	if err != nil {
		return Result{}, fmt.Errorf("tail: %w", err)
	}
	res.Tail = tail

	var b strings.Builder
	for _, seg := range res.Woven {
		b.WriteString(string(seg.Output))
	}
	b.WriteString(string(tail))
	res.Display = b.String()

	o.log.Debug("secret", "value", res.Secret, "mode", string(res.Mode), "policy", o.policy.String())
	for i, seg := range res.Woven {
		o.log.Debug("woven copy", "index", i+1, "value", string(seg.Output), "len", len(seg.Output))
	}
	o.log.Debug("tail", "value", string(tail), "len", len(tail))
	return res, nil
}
