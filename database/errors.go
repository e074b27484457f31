package database

import "errors"

var (
	// ErrInvalidName is returned when a name does not match the identifier
	// grammar: a letter followed by letters, digits or underscores.
	ErrInvalidName = errors.New("invalid name")
	// ErrOutOfBounds is returned when a coordinate lies outside the world.
	ErrOutOfBounds = errors.New("coordinate outside world")
	// ErrInvalidRegion is returned when a search rectangle has a non-positive
	// width or height.
	ErrInvalidRegion = errors.New("region width and height must be positive")
	// ErrNotFound is returned when a removal matches no stored point.
	ErrNotFound = errors.New("point not found")
)
