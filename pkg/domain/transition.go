package domain

import (
	"fmt"
	"strings"
)

// Direction is the head movement of a transition.
// The zero value is invalid, so Compile rejects a rule whose Move was left unset.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

// ParseDirection accepts L/R, left/right, </> and -1/+1 (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "<", "-1":
		return Left, nil
	case "r", "right", ">", "+1", "1":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Offset returns the head delta of the movement.
func (d Direction) Offset() int {
	return int(d)
}

// Valid reports whether d is Left or Right.
func (d Direction) Valid() bool {
	return d == Left || d == Right
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return fmt.Sprintf("Direction(%d)", int8(d))
}

// MarshalText encodes the direction as "L" or "R".
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts every form ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Transition is one rule of the table: in From reading Read, write Write, move, go to To.
type Transition struct {
	From  State     `json:"from" yaml:"from"`
	Read  Symbol    `json:"read" yaml:"read"`
	To    State     `json:"to" yaml:"to"`
	Write Symbol    `json:"write" yaml:"write"`
	Move  Direction `json:"move" yaml:"move"`
}

// Key returns the lookup key of the rule.
func (t Transition) Key() Key {
	return Key{State: t.From, Symbol: t.Read}
}

// Action returns the effect of the rule.
func (t Transition) Action() Action {
	return Action{Next: t.To, Write: t.Write, Move: t.Move}
}

// String renders the compact form "from read -> to write move".
func (t Transition) String() string {
	return fmt.Sprintf("%s %s -> %s %s %s", t.From, t.Read, t.To, t.Write, t.Move)
}

// Key is the (control state, tape symbol) pair a transition is selected by.
type Key struct {
	State  State
	Symbol Symbol
}

// Action is what a matching transition does.
type Action struct {
	Next  State
	Write Symbol
	Move  Direction
}
