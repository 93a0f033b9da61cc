package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders bold text with a horizontal color gradient,
// blended in HCL space for perceptually even steps. Text is split into
// grapheme clusters so combining marks keep their color.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	bold := lipgloss.NewStyle().Bold(true)
	if len(clusters) == 1 {
		return bold.Foreground(from).Render(text)
	}

	c1 := parseHex(from)
	c2 := parseHex(to)

	var b strings.Builder
	for i, cluster := range clusters {
		step := float64(i) / float64(len(clusters)-1)
		hex := lipgloss.Color(c1.BlendHcl(c2, step).Clamped().Hex())
		b.WriteString(bold.Foreground(hex).Render(cluster))
	}
	return b.String()
}

// parseHex reads a #rrggbb lipgloss color. ANSI palette indexes cannot
// be blended and fall back to a neutral gray.
func parseHex(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
