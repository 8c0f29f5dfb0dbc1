package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorBackground = drawing.ColorWhite
	colorText       = drawing.ColorFromHex("333333")
	colorMuted      = drawing.ColorFromHex("8a8f98")
	colorGrid       = drawing.ColorFromHex("e3e6ea")
	colorAxis       = drawing.ColorFromHex("5f6368")
)

// palette is shared by every chart so a category keeps its colour across
// stacked segments and legends.
var palette = []drawing.Color{
	drawing.ColorFromHex("636efa"),
	drawing.ColorFromHex("ef553b"),
	drawing.ColorFromHex("00cc96"),
	drawing.ColorFromHex("ab63fa"),
	drawing.ColorFromHex("ffa15a"),
	drawing.ColorFromHex("19d3f3"),
	drawing.ColorFromHex("ff6692"),
	drawing.ColorFromHex("b6e880"),
	drawing.ColorFromHex("ff97ff"),
	drawing.ColorFromHex("fecb52"),
}

func paletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// BlankLabel stands in for an empty category value
const BlankLabel = "(blank)"

var markupReplacer = strings.NewReplacer("&", "＆", "<", "‹", ">", "›")

// label makes a category value printable inside SVG text
func label(v string) string {
	if strings.TrimSpace(v) == "" {
		return BlankLabel
	}
	return markupReplacer.Replace(v)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
