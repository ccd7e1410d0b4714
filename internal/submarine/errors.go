package submarine

import "errors"

var (
	// ErrPlayfield indicates a playfield too small to hold the hull.
	ErrPlayfield = errors.New("submarine: playfield too small")

	// ErrParams indicates physical constants that cannot be integrated.
	ErrParams = errors.New("submarine: invalid hull parameters")
)
