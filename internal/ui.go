package internal

import (
	"fmt"
	"io"
	"strings"
)

// Package internal: UI helpers (exported)
//
// This file provides small terminal helpers for:
// - ANSI styling (Tokyo Night–inspired colors)
// - Display formatting (grouping, delete-glyph dimming)
// - Pagination of long outputs
//
// Color usage
// - Enable or disable color globally via SetColorEnabled(true/false).
// - Wrap text with Style("text", Bold, Blue) to apply codes when enabled.
// - When disabled, Style returns the input unchanged.

// --- ANSI color/style (Tokyo Night–inspired) ---

// Default: colors enabled. Override via SetColorEnabled.
var colorEnabled = true

// ANSI escape codes (exported)
const (
	Reset  = "\x1b[0m"
	Bold   = "\x1b[1m"
	Blue   = "\x1b[38;2;122;162;247m" // Tokyo Night blue
	Cyan   = "\x1b[38;2;42;195;222m"  // Tokyo Night cyan
	Purple = "\x1b[38;2;187;154;247m" // Tokyo Night purple
	Gray   = "\x1b[38;2;136;146;176m" // Dimmed foreground
	Red    = "\x1b[38;2;247;118;142m" // Tokyo Night red
	Green  = "\x1b[38;2;158;206;106m" // Tokyo Night green

	// QR palette: true black modules on a white field
	QRDark  = "\x1b[38;2;0;0;0m"
	QRLight = "\x1b[48;2;255;255;255m"
)

// SetColorEnabled toggles ANSI styling on or off.
func SetColorEnabled(on bool) {
	colorEnabled = on
}

// ColorEnabled reports whether ANSI styling is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// Style wraps s with the provided ANSI codes when color is enabled.
// When disabled, returns s unchanged.
//
// Example:
//
//	Style("Hello", Bold, Blue)
func Style(s string, codes ...string) string {
	if !colorEnabled {
		return s
	}
	var b strings.Builder
	for _, c := range codes {
		b.WriteString(c)
	}
	b.WriteString(s)
	b.WriteString(Reset)
	return b.String()
}

// Banner returns the styled CLI header.
func Banner(version string) string {
	return Style("pinweave — passcode obfuscator - "+version, Bold, Purple)
}

// --- Display formatting ---

// Group splits s into chunks of n runes joined by sep, so long display
// strings can be copied onto paper without losing one's place. n <= 0 or
// an empty sep returns s unchanged.
func Group(s string, n int, sep string) string {
	if n <= 0 || sep == "" {
		return s
	}
	r := []rune(s)
	var b strings.Builder
	for i, ch := range r {
		if i > 0 && i%n == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Highlight dims every delete glyph in s so the digits stand out. It is a
// no-op when color is disabled.
func Highlight(s string, del rune) string {
	if !colorEnabled {
		return s
	}
	var b strings.Builder
	for _, ch := range s {
		if ch == del {
			b.WriteString(Style(string(ch), Gray))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// --- Pagination ---

// Pager counts printed lines and, when enabled, stops every Height-1 lines
// until the user presses Enter. Pressing q ends the output.
type Pager struct {
	Out     io.Writer
	Prompt  io.Writer
	In      io.Reader
	Enabled bool
	Height  int
	// Header is re-printed at the top of every page; it returns the
	// number of lines it wrote.
	Header func() int

	printed int
}

// Start prints the first header.
func (p *Pager) Start() {
	if p.Header != nil {
		p.printed = p.Header()
	}
}

// Println prints one line. It returns false once the user has asked to
// stop.
func (p *Pager) Println(line string) bool {
	fmt.Fprintln(p.Out, line)
	p.printed++
	if !p.Enabled || p.printed < p.Height-1 {
		return true
	}
	fmt.Fprint(p.Prompt, "-- more -- (Enter to continue, q to quit) ")
	var buf [1]byte
	_, er := p.In.Read(buf[:])
	fmt.Fprintln(p.Prompt)
	if er == nil && (buf[0] == 'q' || buf[0] == 'Q') {
		return false
	}
	p.printed = 0
	p.Start()
	return true
}
