// Package tape implements the unbounded, two-directional tape of a Turing machine.
//
// Cells live in a sparse map keyed by position. Reads fall back to the blank
// symbol without storing anything, so inspecting the tape never grows it.
package tape

import (
	"maps"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape is a sparse tape. The zero value is not usable; use New.
type Tape struct {
	blank domain.Symbol
	cells map[int]domain.Symbol
}

// New creates a tape whose explicit entries are exactly cells.
// The map is copied.
func New(blank domain.Symbol, cells map[int]domain.Symbol) *Tape {
	t := &Tape{
		blank: blank,
		cells: make(map[int]domain.Symbol, len(cells)),
	}
	maps.Copy(t.cells, cells)
	return t
}

// FromSymbols places symbols at positions 0..len-1.
func FromSymbols(blank domain.Symbol, symbols []domain.Symbol) *Tape {
	t := &Tape{
		blank: blank,
		cells: make(map[int]domain.Symbol, len(symbols)),
	}
	for i, s := range symbols {
		t.cells[i] = s
	}
	return t
}

// Blank returns the implicit symbol of unwritten cells.
func (t *Tape) Blank() domain.Symbol {
	return t.blank
}

// Read returns the symbol at pos, or blank if pos was never written.
func (t *Tape) Read(pos int) domain.Symbol {
	if s, ok := t.cells[pos]; ok {
		return s
	}
	return t.blank
}

// Written reports whether pos holds an explicit entry.
// A cell explicitly written with the blank symbol is written; a cell only read is not.
func (t *Tape) Written(pos int) bool {
	_, ok := t.cells[pos]
	return ok
}

// Write stores s at pos.
func (t *Tape) Write(pos int, s domain.Symbol) {
	t.cells[pos] = s
}

// Len returns the number of explicit entries.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Bounds returns the lowest and highest written positions.
// ok is false for a tape without explicit entries.
func (t *Tape) Bounds() (lo, hi int, ok bool) {
	for pos := range t.cells {
		if !ok {
			lo, hi, ok = pos, pos, true
			continue
		}
		lo = min(lo, pos)
		hi = max(hi, pos)
	}
	return lo, hi, ok
}

// Window returns the symbols from center-radius to center+radius inclusive.
func (t *Tape) Window(center, radius int) []domain.Symbol {
	if radius < 0 {
		radius = 0
	}
	out := make([]domain.Symbol, 0, 2*radius+1)
	for pos := center - radius; pos <= center+radius; pos++ {
		out = append(out, t.Read(pos))
	}
	return out
}

// Span returns the symbols from lo to hi inclusive.
func (t *Tape) Span(lo, hi int) []domain.Symbol {
	if hi < lo {
		return nil
	}
	out := make([]domain.Symbol, 0, hi-lo+1)
	for pos := lo; pos <= hi; pos++ {
		out = append(out, t.Read(pos))
	}
	return out
}

// Content returns the written region with leading and trailing blanks trimmed.
// "101" on an increment machine reads "110" after the run, whatever the head did.
func (t *Tape) Content() string {
	lo, hi, ok := t.Bounds()
	if !ok {
		return ""
	}
	for lo <= hi && t.Read(lo) == t.blank {
		lo++
	}
	for hi >= lo && t.Read(hi) == t.blank {
		hi--
	}
	return domain.Join(t.Span(lo, hi))
}

// Cells returns a copy of the explicit entries.
func (t *Tape) Cells() map[int]domain.Symbol {
	return maps.Clone(t.cells)
}

// Positions returns the written positions in ascending order.
func (t *Tape) Positions() []int {
	return slices.Sorted(maps.Keys(t.cells))
}

// Clone returns an independent copy.
func (t *Tape) Clone() *Tape {
	return New(t.blank, t.cells)
}

// Reader is the read-only view of a tape handed out by the engine.
type Reader interface {
	Blank() domain.Symbol
	Read(pos int) domain.Symbol
	Written(pos int) bool
	Len() int
	Bounds() (lo, hi int, ok bool)
	Window(center, radius int) []domain.Symbol
	Span(lo, hi int) []domain.Symbol
	Content() string
	Cells() map[int]domain.Symbol
	Positions() []int
}

var _ Reader = (*Tape)(nil)

// ReadOnly returns a live view of t that exposes no way to write it.
func (t *Tape) ReadOnly() Reader {
	return readOnly{t: t}
}

type readOnly struct {
	t *Tape
}

func (r readOnly) Blank() domain.Symbol                      { return r.t.Blank() }
func (r readOnly) Read(pos int) domain.Symbol                { return r.t.Read(pos) }
func (r readOnly) Written(pos int) bool                      { return r.t.Written(pos) }
func (r readOnly) Len() int                                  { return r.t.Len() }
func (r readOnly) Bounds() (lo, hi int, ok bool)             { return r.t.Bounds() }
func (r readOnly) Window(center, radius int) []domain.Symbol { return r.t.Window(center, radius) }
func (r readOnly) Span(lo, hi int) []domain.Symbol           { return r.t.Span(lo, hi) }
func (r readOnly) Content() string                           { return r.t.Content() }
func (r readOnly) Cells() map[int]domain.Symbol              { return r.t.Cells() }
func (r readOnly) Positions() []int                          { return r.t.Positions() }
