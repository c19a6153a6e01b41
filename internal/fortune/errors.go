package fortune

import (
	"errors"
	"fmt"

	"github.com/cookedfr/cookedfr/internal/upstream"
)

// ErrInvalidName is the validation failure for a missing or empty name.
var ErrInvalidName = errors.New("invalid name provided")

// GenerationError wraps any failure between invoking the upstream API and
// obtaining usable text.
type GenerationError struct {
	Kind upstream.Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate fortune (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
