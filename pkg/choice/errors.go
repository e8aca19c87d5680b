package choice

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTree is returned when a choice tree definition is malformed.
	ErrInvalidTree = errors.New("invalid choice tree")

	// ErrMissingInput is returned when an alternative cannot find its input attributes.
	ErrMissingInput = errors.New("missing choice input")

	// ErrInvalidUtility is returned when a utility function yields NaN or an infinity.
	ErrInvalidUtility = errors.New("utility is not a finite number")

	// ErrNotEvaluated is returned when cached results are requested before any evaluation.
	ErrNotEvaluated = errors.New("choice model not evaluated")
)

// InputError reports an attribute bundle, or an attribute within it, that an
// alternative needed but the caller did not supply.
type InputError struct {
	Alternative string
	Bundle      string
	Attribute   string
}

func (e *InputError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("alternative %q: attribute %q missing from input bundle %q", e.Alternative, e.Attribute, e.Bundle)
	}
	return fmt.Sprintf("alternative %q: input bundle %q not supplied", e.Alternative, e.Bundle)
}

// Is makes InputError match ErrMissingInput.
func (e *InputError) Is(target error) bool {
	return target == ErrMissingInput
}

func treeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTree, fmt.Sprintf(format, args...))
}
