// Package tape renders a window of the tape around the head.
package tape

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// DefaultRadius is the number of cells shown on each side of the head.
const DefaultRadius = 10

const (
	lead  = "... "
	trail = " ... State="
)

// Render returns the window [head-radius, head+radius] followed by a marker line
// with '^' under the head cell. A negative radius shows only the head cell.
func Render(v ports.TapeView, radius int) string {
	return render(v, radius, func(s domain.Symbol) string { return string(s) })
}

// Styled renders the same layout as Render with the head cell highlighted.
// Under the Ascii profile the output is identical to Render.
func Styled(profile termenv.Profile, v ports.TapeView, radius int) string {
	if profile == termenv.Ascii {
		return Render(v, radius)
	}
	style := profile.String().Foreground(profile.Color("#fbbf24")).Bold().Reverse()
	return render(v, radius, func(s domain.Symbol) string {
		return style.Styled(string(s))
	})
}

func render(v ports.TapeView, radius int, highlight func(domain.Symbol) string) string {
	if radius < 0 {
		radius = 0
	}
	head := v.Head()

	var sb strings.Builder
	sb.WriteString(lead)
	column := len(lead)
	for pos := head - radius; pos <= head+radius; pos++ {
		if pos > head-radius {
			sb.WriteByte(' ')
		}
		sym := v.SymbolAt(pos)
		if pos == head {
			sb.WriteString(highlight(sym))
			continue
		}
		sb.WriteString(string(sym))
		if pos < head {
			column += runewidth.StringWidth(string(sym)) + 1
		}
	}
	sb.WriteString(trail)
	sb.WriteString(string(v.State()))
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", column))
	sb.WriteByte('^')
	return sb.String()
}
