package wad

import (
	"errors"
	"fmt"
)

// Format errors
var (
	// ErrFormat indicates malformed archive or map data.
	ErrFormat = errors.New("bad format")

	// ErrTruncated indicates a stream ended before a declared field.
	ErrTruncated = fmt.Errorf("%w: truncated data", ErrFormat)

	// ErrInvalidMap indicates the lumps following a level marker are not the expected ones.
	ErrInvalidMap = fmt.Errorf("%w: invalid map", ErrFormat)
)

// Lookup errors
var (
	// ErrNotFound indicates a named lump or level marker is absent.
	ErrNotFound = errors.New("not found")

	// ErrCapacity indicates the archive or marker table is full.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrIndex indicates a cross-reference points outside its array.
	ErrIndex = errors.New("index out of range")
)
