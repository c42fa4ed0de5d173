package rack

import (
	"errors"
	"fmt"
)

// Grid dimensions of every room (17 columns A-Q x 10 rows).
const (
	Columns = 17
	Rows    = 10
)

// ErrInvalidColumn column label is not a single letter A-Q
var ErrInvalidColumn = errors.New("invalid column label")

// Side physical face of a rack as seen on the floor plan
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other face.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Position which sensor of a rack: cold-air intake or hot-air exhaust
type Position string

const (
	PositionIntake  Position = "intake"
	PositionExhaust Position = "exhaust"
)

// Placement intake/exhaust face assignment for one rack
type Placement struct {
	Intake  Side `json:"intake"`
	Exhaust Side `json:"exhaust"`
}

var columnLabels = [Columns]string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I",
	"J", "K", "L", "M", "N", "O", "P", "Q",
}

// ColumnLabels returns the 17 column labels in floor order.
func ColumnLabels() []string {
	out := make([]string, Columns)
	copy(out, columnLabels[:])
	return out
}

// ColumnIndex converts a label ("A".."Q") to its 0-based index.
func ColumnIndex(label string) (int, error) {
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Q' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColumn, label)
	}
	return int(label[0] - 'A'), nil
}

// ColumnLabel converts a 1-based column number (1..17) to its label.
func ColumnLabel(col int) (string, error) {
	if col < 1 || col > Columns {
		return "", fmt.Errorf("%w: column %d out of range 1..%d", ErrInvalidColumn, col, Columns)
	}
	return columnLabels[col-1], nil
}

// ResolvePositions returns which face of a rack in the given column carries
// the intake sensor and which the exhaust sensor.
//
// Cold aisles run between A-B, C-D, ..., O-P; hot aisles run left of A,
// between B-C, ..., P-Q and right of Q. Column A therefore takes intake on
// the right, odd columns (B, D, ..., P) on the left, and every other even
// column including Q on the right.
func ResolvePositions(columnLabel string) (Placement, error) {
	c, err := ColumnIndex(columnLabel)
	if err != nil {
		return Placement{}, err
	}

	switch {
	case c == 0, c == Columns-1:
		return Placement{Intake: SideRight, Exhaust: SideLeft}, nil
	case c%2 == 1:
		return Placement{Intake: SideLeft, Exhaust: SideRight}, nil
	default:
		return Placement{Intake: SideRight, Exhaust: SideLeft}, nil
	}
}

// PositionAt reports which sensor sits on the given face of a rack in the column.
func PositionAt(columnLabel string, side Side) (Position, error) {
	if side != SideLeft && side != SideRight {
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidColumn, side)
	}
	p, err := ResolvePositions(columnLabel)
	if err != nil {
		return "", err
	}
	if p.Intake == side {
		return PositionIntake, nil
	}
	return PositionExhaust, nil
}

// SideOf returns the face carrying the given sensor position.
func (p Placement) SideOf(pos Position) Side {
	if pos == PositionIntake {
		return p.Intake
	}
	return p.Exhaust
}
