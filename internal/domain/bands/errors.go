package bands

import (
	"errors"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

var (
	// ErrMissingReference is model.ErrMissingReference.
	ErrMissingReference = model.ErrMissingReference
	// ErrUnmappedDiscreteValue is returned for a discrete score outside the scale.
	ErrUnmappedDiscreteValue = errors.New("unmapped discrete value")
	// ErrInvalidScale is returned when a discrete scale does not cover its range.
	ErrInvalidScale = errors.New("invalid discrete scale")
)
