package llm

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced at component boundaries. Components wrap one of
// these into their errors so callers can classify with errors.Is.
var (
	// ErrSourceUnavailable covers an unreachable spreadsheet, a missing
	// worksheet and schema violations in the data source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrIndexBuild covers embedding or indexing failures during startup.
	ErrIndexBuild = errors.New("index build failed")

	// ErrGeneration covers failures of a single question/answer turn.
	ErrGeneration = errors.New("generation failed")
)

// WrapSourceUnavailable marks err as a data-source failure.
func WrapSourceUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}

// WrapIndexBuild marks err as an index-build failure.
func WrapIndexBuild(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIndexBuild, err)
}

// WrapGeneration marks err as a per-turn generation failure.
func WrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
