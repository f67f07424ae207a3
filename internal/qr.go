package internal

import (
	"fmt"
	"io"
	"strings"

	"rsc.io/qr"
)

// quietZone is the blank border, in modules, that scanners need.
const quietZone = 2

// RenderQR writes text as a QR code using half-block characters, two
// module rows per terminal line.
//
// With color enabled every line carries an explicit black-on-white palette
// (QRDark/QRLight), so the code scans on any terminal theme. Without color
// the glyphs are inverted: light modules are drawn as blocks, which only
// reads correctly on a dark background.
func RenderQR(w io.Writer, text string) error {
	code, err := qr.Encode(text, qr.M)
	if err != nil {
		return fmt.Errorf("encode QR: %w", err)
	}

	black := func(x, y int) bool {
		x -= quietZone
		y -= quietZone
		if x < 0 || y < 0 || x >= code.Size || y >= code.Size {
			return false
		}
		return code.Black(x, y)
	}

	// ink reports which half-cells get the foreground glyph
	ink := func(x, y int) bool { return !black(x, y) }
	if colorEnabled {
		ink = black
	}

	size := code.Size + 2*quietZone
	var b strings.Builder
	for y := 0; y < size; y += 2 {
		if colorEnabled {
			b.WriteString(QRDark + QRLight)
		}
		for x := 0; x < size; x++ {
			top, bottom := ink(x, y), ink(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if colorEnabled {
			b.WriteString(Reset)
		}
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}
