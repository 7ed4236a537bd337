package spatialmath

import "github.com/pkg/errors"

// NewZeroAxisError is returned when a rotation is requested about a zero-length axis.
func NewZeroAxisError() error {
	return errors.New("rotation axis has zero length")
}

func newBadGeometryDimensionsError(dims interface{}) error {
	return errors.Errorf("invalid dimension(s) for box: %v, all must be positive", dims)
}
