package vtreplay

import "image/color"

// Palette names a 16-color ANSI scheme plus the dark/light-background and
// bold-as-bright derivations HTMLRenderer needs to emit a self-contained
// stylesheet, mirroring terminal2html.py's SCHEMES table.
type Palette struct {
	Name string
	// Colors holds the 16 ANSI colors in order: black, red, green, yellow,
	// blue, magenta, cyan, white, then the bright variants of each.
	Colors [16]color.RGBA
}

func hexRGBA(hex string) color.RGBA {
	var r, g, b uint8
	const hexDigits = "0123456789abcdef"
	val := func(c byte) uint8 {
		for i := 0; i < 16; i++ {
			if hexDigits[i] == c {
				return uint8(i)
			}
		}
		return 0
	}
	h := hex
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	r = val(h[0])<<4 | val(h[1])
	g = val(h[2])<<4 | val(h[3])
	b = val(h[4])<<4 | val(h[5])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Dracula is the upstream Dracula terminal theme.
var Dracula = Palette{
	Name: "Dracula",
	Colors: [16]color.RGBA{
		hexRGBA("#282a36"), hexRGBA("#ee3c3c"), hexRGBA("#66de3d"), hexRGBA("#ffb86c"),
		hexRGBA("#5443bc"), hexRGBA("#bd93f9"), hexRGBA("#77d6fb"), hexRGBA("#f8f8f2"),
		hexRGBA("#44475a"), hexRGBA("#ff5555"), hexRGBA("#50fa7b"), hexRGBA("#f1fa8c"),
		hexRGBA("#6272a4"), hexRGBA("#ff79c6"), hexRGBA("#8be9fd"), hexRGBA("#f8f8f2"),
	},
}

// MyDracula is a locally tuned variant of Dracula, used as the default
// palette (matching the original tool's default).
var MyDracula = Palette{
	Name: "MyDracula",
	Colors: [16]color.RGBA{
		hexRGBA("#21222c"), hexRGBA("#ff5555"), hexRGBA("#50fa7b"), hexRGBA("#f1fa8c"),
		hexRGBA("#bd93f9"), hexRGBA("#ff79c6"), hexRGBA("#8be9fd"), hexRGBA("#f8f8f2"),
		hexRGBA("#6272a4"), hexRGBA("#ff6e6e"), hexRGBA("#d6acff"), hexRGBA("#ffffa5"),
		hexRGBA("#d6acff"), hexRGBA("#ff92df"), hexRGBA("#a4ffff"), hexRGBA("#ffffff"),
	},
}

// TangoDark is the classic Tango terminal theme on a dark background.
var TangoDark = Palette{
	Name: "TangoDark",
	Colors: [16]color.RGBA{
		hexRGBA("#000000"), hexRGBA("#cc0000"), hexRGBA("#4e9a06"), hexRGBA("#c4a000"),
		hexRGBA("#3465a4"), hexRGBA("#ad7fa8"), hexRGBA("#06989a"), hexRGBA("#d3d7cf"),
		hexRGBA("#555753"), hexRGBA("#ef2929"), hexRGBA("#8ae234"), hexRGBA("#fce94f"),
		hexRGBA("#729fcf"), hexRGBA("#d6acff"), hexRGBA("#34e2e2"), hexRGBA("#eeeeec"),
	},
}

// Palettes indexes the three named schemes by name, for CLI flag resolution.
var Palettes = map[string]Palette{
	"Dracula":   Dracula,
	"MyDracula": MyDracula,
	"TangoDark": TangoDark,
}

// DefaultPalette256 is the standard 256-color terminal palette: the
// palette's 16 ANSI colors (0-15), a 216-entry RGB cube (16-231), and 24
// grayscale steps (232-255), used as the indexed-color fallback for SGR
// "38;5;n" / "48;5;n" when no palette entry exists for n.
func DefaultPalette256(p Palette) [256]color.RGBA {
	var out [256]color.RGBA
	copy(out[:16], p.Colors[:])

	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				out[i] = color.RGBA{R: uint8(r * 51), G: uint8(g * 51), B: uint8(b * 51), A: 255}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		out[232+j] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
	}
	return out
}

// ForegroundBackground resolves the default foreground/background pair a
// renderer's outermost <body> rule should use, following terminal2html.py's
// DarkBg table: a dark background pairs ANSI color 7 (light gray) as
// foreground with color 0 (black) as background, and a light background
// swaps them.
func ForegroundBackground(p Palette, darkBg bool) (fg, bg color.RGBA) {
	if darkBg {
		return p.Colors[7], p.Colors[0]
	}
	return p.Colors[0], p.Colors[7]
}

// BoldForeground resolves the color bold text on the default foreground
// should render in. When boldAsBright is true (the common case), bold swaps
// to the bright variant of the default foreground/background pairing
// (color 15 on dark backgrounds, color 8 on light ones); when false, bold
// keeps the plain default foreground color and relies on font-weight alone.
func BoldForeground(p Palette, darkBg, boldAsBright bool) color.RGBA {
	if !boldAsBright {
		fg, _ := ForegroundBackground(p, darkBg)
		return fg
	}
	if darkBg {
		return p.Colors[15]
	}
	return p.Colors[8]
}
