package sheet

import "fmt"

// Position is a tile coordinate within a [Grid].
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// LocateLastFrame returns the grid coordinate of the last frame written.
//
// The flat index of the last frame is (framesWritten-1) mod capacity, which
// is then split into column and row. With zeroBased false the coordinate is
// reported one-based (the first tile is (1, 1)), which is what most sprite
// editors show. With zeroBased true the first tile is (0, 0).
//
// framesWritten must be positive; zero yields [ErrEmptySequence].
func LocateLastFrame(g Grid, framesWritten int, zeroBased bool) (Position, error) {
	err := g.validate()
	if err != nil {
		return Position{}, err
	}

	if framesWritten <= 0 {
		return Position{}, fmt.Errorf("%w: no frames written", ErrEmptySequence)
	}

	last := (framesWritten - 1) % g.Capacity()
	pos := Position{
		X: last % g.Columns,
		Y: last / g.Columns,
	}

	if !zeroBased {
		pos.X++
		pos.Y++
	}

	return pos, nil
}
