package internal

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_DoubledFixedDraws(t *testing.T) {
	cfg := staticConfig(4, 1, 3)
	o, err := New(cfg, WithSource(zeroSource()))
	require.NoError(t, err)

	res, err := o.Generate()
	require.NoError(t, err)
	assert.Equal(t, "0000", res.Secret)
	require.Len(t, res.Woven, 1)
	assert.Equal(t, "00000000", string(Replay(res.Woven[0].Output, '☒')))
	assert.Equal(t, "000☒000☒000☒0000", res.Display)
	assert.GreaterOrEqual(t, len([]rune(res.Display)), 8)
}

func TestCreate_DoubledWithoutRunCap(t *testing.T) {
	cfg := staticConfig(4, 1, 100)
	o, err := New(cfg, WithSource(zeroSource()))
	require.NoError(t, err)

	display, err := o.Create()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(display, "00000000"))
	assert.Equal(t, "0000000000", display)
}

func TestCreateWithSecret_TwiceFixedDraws(t *testing.T) {
	cfg := staticConfig(4, 1, 3)
	cfg.Mode = ModeTwice
	o, err := New(cfg, WithSource(zeroSource()))
	require.NoError(t, err)

	display, secret, err := o.CreateWithSecret()
	require.NoError(t, err)
	assert.Equal(t, "0000", secret)
	assert.Equal(t, "000☒00000☒0000", display)
}

func TestGenerate_SecretAppearsTwiceInOrder(t *testing.T) {
	for _, mode := range []Mode{ModeDoubled, ModeTwice} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = mode
			cfg.Length = 6
			o, err := New(cfg, WithSource(seeded("twice-"+string(mode))))
			require.NoError(t, err)

			for i := 0; i < 100; i++ {
				res, err := o.Generate()
				require.NoError(t, err)
				require.NoError(t, Verify(res, '☒', cfg.MaxRun))

				var typed strings.Builder
				for _, seg := range res.Woven {
					typed.WriteString(string(Replay(seg.Output, '☒')))
				}
				assert.Equal(t, res.Secret+res.Secret, typed.String())

				var woven strings.Builder
				for _, seg := range res.Woven {
					woven.WriteString(string(seg.Output))
				}
				assert.Equal(t, woven.String()+string(res.Tail), res.Display)
			}
		})
	}
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	gen := func(phrase string) string {
		o, err := New(DefaultConfig(), WithSource(seeded(phrase)))
		require.NoError(t, err)
		var out []string
		for i := 0; i < 5; i++ {
			s, err := o.Create()
			require.NoError(t, err)
			out = append(out, s)
		}
		return strings.Join(out, "\n")
	}
	assert.Equal(t, gen("correct horse"), gen("correct horse"))
	assert.NotEqual(t, gen("correct horse"), gen("battery staple"))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delete = "5"
	_, err := New(cfg, WithSource(zeroSource()))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Alphabet = ""
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestObfuscateSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeTwice
	o, err := New(cfg, WithSource(seeded("caller")))
	require.NoError(t, err)

	res, err := o.ObfuscateSecret("2580")
	require.NoError(t, err)
	assert.Equal(t, "2580", res.Secret)
	require.Len(t, res.Woven, 2)
	for _, seg := range res.Woven {
		assert.Equal(t, "2580", string(Replay(seg.Output, '☒')))
	}

	_, err = o.ObfuscateSecret("258")
	assert.ErrorIs(t, err, ErrInvalidSecret)
	_, err = o.ObfuscateSecret("25a0")
	assert.ErrorIs(t, err, ErrInvalidSecret)
	assert.NotContains(t, err.Error(), "25a0")
}

func TestGenerate_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	o, err := New(staticConfig(4, 1, 3), WithSource(zeroSource()), WithLogger(log))
	require.NoError(t, err)

	_, err = o.Generate()
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "value=0000")
	assert.Contains(t, out, "woven copy")
	assert.Contains(t, out, "tail")
}

func TestGenerate_QuietByDefault(t *testing.T) {
	o, err := New(DefaultConfig(), WithSource(seeded("quiet")))
	require.NoError(t, err)
	assert.False(t, o.log.Enabled(context.Background(), slog.LevelDebug))
}

func TestGenerate_TraceSeesEveryPass(t *testing.T) {
	passes := 0
	trace := func(s Step) {
		if s.Iteration == 0 {
			passes++
		}
	}
	cfg := DefaultConfig()
	cfg.Mode = ModeTwice
	o, err := New(cfg, WithSource(seeded("trace")), WithTrace(trace))
	require.NoError(t, err)
	_, err = o.Generate()
	require.NoError(t, err)
	// two woven copies and the tail
	assert.Equal(t, 3, passes)
}

func TestGenerate_ExhaustionPropagates(t *testing.T) {
	cfg := staticConfig(4, 0.7, 3)
	cfg.MaxIterations = 10
	o, err := New(cfg, WithSource(NewScriptedSource(0, 0, 0, 0, 0.99)))
	require.NoError(t, err)
	_, err = o.Generate()
	assert.ErrorIs(t, err, ErrGenerationExhausted)
}
