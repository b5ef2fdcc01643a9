package ui

import (
	"math"
	"strings"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// renderSparkline draws percentages on a fixed 0-100 scale so that charts
// of different series stay comparable. Only the last width points are drawn;
// shorter data is left-padded.
func renderSparkline(data []float64, width int) string {
	if width <= 0 {
		width = len(data)
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	var b strings.Builder
	if pad := width - len(data); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	for _, v := range data {
		normalized := math.Max(0, math.Min(1, v/100))
		idx := int(math.Round(normalized * float64(len(sparkBlocks)-1)))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
