package mutation

import (
	"fmt"

	"github.com/kiteco/dnamutation/kite-golib/dna"
)

// InsufficientDataError is returned when training is attempted without any training records.
type InsufficientDataError struct{}

// Error implements error
func (e *InsufficientDataError) Error() string {
	return "No training data available"
}

// SequenceTooShortError is returned when a training sequence cannot produce a single k-mer.
type SequenceTooShortError struct {
	MinLength int
}

// Error implements error
func (e *SequenceTooShortError) Error() string {
	return fmt.Sprintf("Sequences too short for %d-grams. Minimum length: %d", dna.K, e.MinLength)
}

// ValidationError is a malformed request.
type ValidationError struct {
	Message string
}

// Error implements error
func (e *ValidationError) Error() string {
	return e.Message
}
