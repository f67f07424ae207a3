package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DigitAlphabet, cfg.Alphabet)
	assert.Equal(t, '☒', cfg.DeleteRune())
	assert.Equal(t, 4, cfg.Length)
	assert.Equal(t, 3, cfg.MaxRun)
	assert.Equal(t, ModeDoubled, cfg.Mode)
	assert.Equal(t, ScheduleAdaptive, cfg.ResolvedSchedule().Kind)

	pol, err := cfg.ReplacePolicy()
	require.NoError(t, err)
	assert.Equal(t, PolicyPostPass, pol)

	cfg.Mode = ModeTwice
	pol, err = cfg.ReplacePolicy()
	require.NoError(t, err)
	assert.Equal(t, PolicyInline, pol)

	cfg.Policy = "none"
	pol, err = cfg.ReplacePolicy()
	require.NoError(t, err)
	assert.Equal(t, PolicyNone, pol)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty alphabet":      func(c *Config) { c.Alphabet = "" },
		"duplicate rune":      func(c *Config) { c.Alphabet = "01231" },
		"delete in alphabet":  func(c *Config) { c.Delete = "7" },
		"delete two runes":    func(c *Config) { c.Delete = "☒☒" },
		"empty delete":        func(c *Config) { c.Delete = "" },
		"zero length":         func(c *Config) { c.Length = 0 },
		"zero max run":        func(c *Config) { c.MaxRun = 0 },
		"negative iterations": func(c *Config) { c.MaxIterations = -1 },
		"unknown mode":        func(c *Config) { c.Mode = "thrice" },
		"unknown policy":      func(c *Config) { c.Policy = "later" },
		"unknown schedule":    func(c *Config) { c.Schedule.Kind = "random" },
		"static zero":         func(c *Config) { c.Schedule.Kind = ScheduleStatic; c.Schedule.Static = 0 },
		"normal above one":    func(c *Config) { c.Schedule.Normal = 1.5 },
		"big negative":        func(c *Config) { c.Schedule.Big = -0.1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinweave.toml")
	data := `
alphabet = "0123456789"
delete = "×"
length = 6
mode = "twice"

[schedule]
kind = "static"
static = 0.6
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, '×', cfg.DeleteRune())
	assert.Equal(t, 6, cfg.Length)
	assert.Equal(t, ModeTwice, cfg.Mode)
	assert.Equal(t, ScheduleStatic, cfg.Schedule.Kind)
	assert.Equal(t, 0.6, cfg.Schedule.Static)
	// unset keys keep their defaults
	assert.Equal(t, 3, cfg.MaxRun)
	assert.Equal(t, 0.75, cfg.Schedule.Big)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinweave.yaml")
	data := `
alphabet: "0123456789ab"
length: 5
max_run: 2
max_iterations: 0
schedule:
  kind: adaptive
  normal: 0.4
  big: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0123456789ab", cfg.Alphabet)
	assert.Equal(t, 5, cfg.Length)
	assert.Equal(t, 2, cfg.MaxRun)
	assert.Equal(t, 0, cfg.MaxIterations)
	assert.Equal(t, 0.4, cfg.Schedule.Normal)
	assert.Equal(t, 0.8, cfg.Schedule.Big)
}

func TestLoadConfig_AutoDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinweaverc")
	require.NoError(t, os.WriteFile(path, []byte("length = 6\n"), 0o600))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Length)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("length = [1, 2"), 0o600))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	contract := filepath.Join(dir, "contract.toml")
	require.NoError(t, os.WriteFile(contract, []byte(`delete = "3"`), 0o600))
	_, err = LoadConfig(contract)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDecodeConfig_FailedAutoDetectLeavesConfig(t *testing.T) {
	// parses as TOML but a field has the wrong type, and is not YAML either
	data := []byte("alphabet = \"01\"\nlength = \"six\"\n")
	cfg := DefaultConfig()
	err := decodeConfig("pinweaverc", data, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not TOML")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/pinweave.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PINWEAVE_LENGTH", "6")
	t.Setenv("PINWEAVE_MODE", "TWICE")
	t.Setenv("PINWEAVE_DELETE", "x")
	t.Setenv("PINWEAVE_DEBUG", "true")

	path := filepath.Join(t.TempDir(), "pinweave.toml")
	require.NoError(t, os.WriteFile(path, []byte("length = 4\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Length)
	assert.Equal(t, ModeTwice, cfg.Mode)
	assert.Equal(t, '×', cfg.DeleteRune())
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_EnvUnparsable(t *testing.T) {
	cases := map[string][2]string{
		"length": {"PINWEAVE_LENGTH", "six"},
		"debug":  {"PINWEAVE_DEBUG", "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := LoadConfig("")
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), env[0])
		})
	}
}

func TestLoadConfig_ScheduleFollowsMode(t *testing.T) {
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "twice.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mode: twice\n"), 0o600))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ScheduleStatic, cfg.ResolvedSchedule().Kind)
		assert.Equal(t, 0.7, cfg.ResolvedSchedule().Static)
		assert.Equal(t, ScheduleStatic, NewWeaver(cfg, NewSampler(zeroSource()), nil).schedule.Kind)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("PINWEAVE_MODE", "twice")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ScheduleStatic, cfg.ResolvedSchedule().Kind)
	})

	t.Run("doubled", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ScheduleAdaptive, cfg.ResolvedSchedule().Kind)
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		path := filepath.Join(dir, "explicit.toml")
		data := "mode = \"twice\"\n[schedule]\nkind = \"adaptive\"\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ScheduleAdaptive, cfg.ResolvedSchedule().Kind)
	})
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, []string{"honor", "iphone"}, ProfileNames())

	cfg := DefaultConfig()
	require.NoError(t, ApplyProfile(&cfg, "Honor"))
	assert.Equal(t, 6, cfg.Length)
	require.NoError(t, ApplyProfile(&cfg, "iphone"))
	assert.Equal(t, 4, cfg.Length)
	assert.ErrorIs(t, ApplyProfile(&cfg, "pager"), ErrInvalidConfig)
}

func TestResolveDelete(t *testing.T) {
	for in, want := range map[string]rune{"☒": '☒', "box": '☒', "x": '×', "X": '×', "#": '#'} {
		got, err := ResolveDelete(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ResolveDelete("oops")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
