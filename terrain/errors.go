package terrain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidGridSize is returned when a diamond-square grid is not 2^k+1 wide.
	ErrInvalidGridSize = errors.New("invalid grid size")
	// ErrInvalidParams is returned for out-of-range generation parameters.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnknownStrategy is returned by New for an unregistered name.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

func invalidParam(strategy, field string, value any, reason string) error {
	return fmt.Errorf("%s: %s=%v %s: %w", strategy, field, value, reason, ErrInvalidParams)
}

// checkDims validates output dimensions.
func checkDims(strategy string, width, height int) error {
	if width < 1 {
		return invalidParam(strategy, "width", width, "must be >= 1")
	}
	if height < 1 {
		return invalidParam(strategy, "height", height, "must be >= 1")
	}
	return nil
}

// checkOctaves validates the parameters shared by every octave loop.
func checkOctaves(strategy string, octaves int, persistence float64) error {
	if octaves < 1 {
		return invalidParam(strategy, "octaves", octaves, "must be >= 1")
	}
	return checkPositive(strategy, "persistence", persistence)
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkPositive rejects zero, negative and non-finite values. NaN fails
// every ordered comparison, so it is tested for explicitly.
func checkPositive(strategy, field string, v float64) error {
	if !finite(v) || v <= 0 {
		return invalidParam(strategy, field, v, "must be finite and > 0")
	}
	return nil
}

// checkNonNegative rejects negative and non-finite values.
func checkNonNegative(strategy, field string, v float64) error {
	if !finite(v) || v < 0 {
		return invalidParam(strategy, field, v, "must be finite and >= 0")
	}
	return nil
}

func invalidGridSize(size int) error {
	return fmt.Errorf("%s: size=%d is not 2^k+1: %w", NameDiamondSquare, size, ErrInvalidGridSize)
}
