package insights

import (
	"errors"
	"fmt"

	"insightly/internal/core"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("invalid generation request")
	// ErrGeneration matches every *GenerationError.
	ErrGeneration = errors.New("insight generation failed")
)

// ValidationError reports a request rejected before any service call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// GenerationError reports a service failure for one category. The whole
// generation call fails with it; no partial batch is produced.
type GenerationError struct {
	Category core.Category
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Category.Label(), e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}
