package tape_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// view is a read-only stub; reads are counted so tests can assert the window.
type view struct {
	head  int
	state domain.State
	cells map[int]domain.Symbol
	reads []int
}

func (v *view) Head() int           { return v.head }
func (v *view) State() domain.State { return v.state }
func (v *view) SymbolAt(pos int) domain.Symbol {
	v.reads = append(v.reads, pos)
	if s, ok := v.cells[pos]; ok {
		return s
	}
	return "#"
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		view   *view
		radius int
		want   string
	}{
		{
			name:   "Radius Two",
			view:   &view{head: 0, state: "s", cells: map[int]domain.Symbol{0: "1", 1: "0", 2: "1"}},
			radius: 2,
			want:   "... # # 1 0 1 ... State=s\n        ^",
		},
		{
			name:   "Head Inside Input",
			view:   &view{head: 2, state: "a", cells: map[int]domain.Symbol{0: "1", 1: "0", 2: "1"}},
			radius: 1,
			want:   "... 0 1 # ... State=a\n      ^",
		},
		{
			name:   "Zero Radius",
			view:   &view{head: -5, state: "H"},
			radius: 0,
			want:   "... # ... State=H\n    ^",
		},
		{
			name:   "Wide Symbols",
			view:   &view{head: 1, state: "q", cells: map[int]domain.Symbol{0: "ab", 1: "c"}},
			radius: 1,
			want:   "... ab c # ... State=q\n       ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tape.Render(tt.view, tt.radius)
			if got != tt.want {
				t.Errorf("Render() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRender_ReadsExactlyTheWindow(t *testing.T) {
	v := &view{head: 3, state: "s"}
	tape.Render(v, 2)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, v.reads)
}

func TestRender_DefaultRadiusMarkerColumn(t *testing.T) {
	v := &view{head: 0, state: "s"}
	lines := strings.Split(tape.Render(v, tape.DefaultRadius), "\n")
	assert.Len(t, lines, 2)
	// Matches the classic 2*W+4 column for single-width symbols.
	assert.Equal(t, strings.Repeat(" ", 2*tape.DefaultRadius+4)+"^", lines[1])
}

func TestStyled(t *testing.T) {
	v := &view{head: 0, state: "s", cells: map[int]domain.Symbol{0: "1"}}

	assert.Equal(t, tape.Render(v, 3), tape.Styled(termenv.Ascii, v, 3))

	styled := tape.Styled(termenv.TrueColor, v, 3)
	assert.NotEqual(t, tape.Render(v, 3), styled)
	assert.Contains(t, styled, "\x1b[")
	assert.True(t, strings.HasSuffix(styled, "\n"+strings.Repeat(" ", 10)+"^"), "marker column ignores escapes")
}
