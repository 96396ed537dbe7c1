package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a parameter set or usage policy rejected before integration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStockDepleted marks a run driven to zero store stock, where the
	// wanted level is undefined.
	ErrStockDepleted = errors.New("stock depleted")
)

// ConfigError names the offending setting.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}

// NewConfigError is used by policy and config layers that validate on top of Params.
func NewConfigError(field, reason string) error {
	return configErr(field, reason)
}

// StockDepletedError captures where the run hit the unphysical state.
type StockDepletedError struct {
	Step  int
	Time  float64
	Stock float64
}

func (e *StockDepletedError) Error() string {
	return fmt.Sprintf("%s at step %d (t=%g): stock=%g", ErrStockDepleted, e.Step, e.Time, e.Stock)
}

func (e *StockDepletedError) Unwrap() error { return ErrStockDepleted }
