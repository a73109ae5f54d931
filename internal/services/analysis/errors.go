package analysis

import (
	"errors"
	"fmt"

	"BuyBio/internal/domain/models"
)

var (
	// ErrDataUnavailable covers fetch failures and unusable histories. The instrument is skipped.
	ErrDataUnavailable  = errors.New("market data unavailable")
	ErrInsufficientData = fmt.Errorf("insufficient history: %w", ErrDataUnavailable)
	ErrMalformedClose   = fmt.Errorf("non-numeric close: %w", ErrDataUnavailable)

	// ErrComputation marks an unexpected failure while computing one instrument.
	ErrComputation = errors.New("computation failed")

	// ErrMetadataUnavailable means the company metadata could not be read at all.
	// It is the only error that fails a whole request.
	ErrMetadataUnavailable = errors.New("company metadata unavailable")
)

// ReasonOf maps a per-instrument error to the skip reason reported in batch results.
func ReasonOf(err error) models.SkipReason {
	if errors.Is(err, ErrComputation) {
		return models.SkipComputationError
	}
	return models.SkipDataUnavailable
}
