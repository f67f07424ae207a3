package internal

// Device profiles and delete glyphs.
//
// A profile fixes the passcode length of one device family. Everything
// else (alphabet, delete glyph, schedule) keeps its configured value.
//
//   iphone: 4 digits (Screen Time passcode)
//   honor:  6 digits (Health / usage-time passcode)
//
// Delete glyphs may be given literally ("☒") or by name ("box", "x").

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// DigitAlphabet is the alphabet of numeric passcodes.
const DigitAlphabet = "0123456789"

// DefaultDelete is the glyph shown for a "delete last keystroke" press.
const DefaultDelete = '☒'

// Profile names a device family and its passcode length.
type Profile struct {
	Name   string
	Length int
	About  string
}

// Profiles lists the built-in device families.
var Profiles = map[string]Profile{
	"iphone": {Name: "iphone", Length: 4, About: "iPhone Screen Time passcode"},
	"honor":  {Name: "honor", Length: 6, About: "Honor usage-time passcode"},
}

// DeleteGlyphs maps glyph names to delete sentinels. 'x' and 'X' are
// accepted as names for ×, matching how people type it.
var DeleteGlyphs = map[string]rune{
	"box":    '☒',
	"x":      '×',
	"X":      '×',
	"cross":  '✕',
	"slash":  '⌫',
	"bullet": '•',
}

// ProfileNames returns the built-in profile names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for n := range Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyProfile sets cfg.Length from the named profile.
func ApplyProfile(cfg *Config, name string) error {
	p, ok := Profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: unknown profile %q (supported: %s)", ErrInvalidConfig, name, strings.Join(ProfileNames(), ", "))
	}
	cfg.Length = p.Length
	return nil
}

// ResolveDelete turns a flag value into a delete sentinel. Glyph names
// take precedence, then any single character is used as-is.
func ResolveDelete(s string) (rune, error) {
	if r, ok := DeleteGlyphs[s]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	return 0, fmt.Errorf("%w: delete glyph %q is neither a single character nor a known name", ErrInvalidConfig, s)
}
