package model

import "errors"

var (
	// ErrInvalidDimension is returned when an item or page has a non-positive size,
	// or when the margin leaves no usable interior.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrItemTooLarge is returned when an item fits the page interior in neither orientation.
	ErrItemTooLarge = errors.New("item does not fit on page")
)
