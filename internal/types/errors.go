package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two fatal error kinds the engine produces.
// Both support errors.Is through the wrapping types below.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// InsufficientDataError reports an aggregation attempt over zero seasons.
// It is fatal to the single call, not to a batch containing it.
type InsufficientDataError struct {
	PlayerID string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: player %s has no seasons on record", e.PlayerID)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// InvalidParameterError reports a caller-supplied parameter the engine
// cannot work with, such as a non-positive trial count.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }
