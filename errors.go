package tileset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDescriptor is returned when tileset metadata breaks one of
	// the rules checked by Validate.
	ErrInvalidDescriptor = errors.New("tileset: invalid descriptor")

	// ErrTileNotFound is returned when no registered tileset owns a tile ID.
	ErrTileNotFound = errors.New("tileset: tile not found")
)

// Validate checks the descriptor against the format rules: firstgid of at
// least 1 (0 means "no tile"), positive tile dimensions and non-negative
// tile and column counts. Every violated rule is reported.
func (d Descriptor) Validate() error {
	var errs []error
	if d.firstGID < 1 {
		errs = append(errs, fmt.Errorf("%w: %s: firstgid %d < 1", ErrInvalidDescriptor, d.source, d.firstGID))
	}
	if d.tileWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s: tile width %d", ErrInvalidDescriptor, d.source, d.tileWidth))
	}
	if d.tileHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s: tile height %d", ErrInvalidDescriptor, d.source, d.tileHeight))
	}
	if d.tileCount < 0 {
		errs = append(errs, fmt.Errorf("%w: %s: tile count %d", ErrInvalidDescriptor, d.source, d.tileCount))
	}
	if d.columns < 0 {
		errs = append(errs, fmt.Errorf("%w: %s: columns %d", ErrInvalidDescriptor, d.source, d.columns))
	}
	return errors.Join(errs...)
}

// NewValidated is like New but rejects metadata that fails Validate.
func NewValidated(source string, firstGID, tileWidth, tileHeight, tileCount, columns int) (Descriptor, error) {
	d := New(source, firstGID, tileWidth, tileHeight, tileCount, columns)
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
