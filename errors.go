package backdrop

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidStyle is returned by Style.Validate for out of range parameters.
var ErrInvalidStyle = errors.New("invalid style parameters")

// DecodeError is returned when the source bytes are not a decodable raster image.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("failed to load image (%s): %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("failed to load image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SurfaceUnavailableError is returned when the render target could not be acquired.
// It is fatal for the current render but the call can be retried.
type SurfaceUnavailableError struct {
	Width, Height int
	Err           error
}

func (e *SurfaceUnavailableError) Error() string {
	return fmt.Sprintf("could not acquire a %dx%d render surface: %v", e.Width, e.Height, e.Err)
}

func (e *SurfaceUnavailableError) Unwrap() error { return e.Err }

// CompositionError wraps any failure raised while painting the background,
// the shadow or the clipped image. Partial results are never returned with it.
type CompositionError struct {
	Step string
	Err  error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition failed at %s: %v", e.Step, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }
