package dynamo

import (
	"errors"
	"fmt"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/config"
)

// Domain errors for engine commands.
var (
	// ErrUnknownBody indicates a command addressed an id that is not live.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrNegativeSpeed indicates a speed edit below zero or not a number.
	ErrNegativeSpeed = errors.New("dynamo: speed must be a non-negative number")

	// ErrCentralBody indicates an edit the fixed central body does not support.
	ErrCentralBody = errors.New("dynamo: central body cannot be moved")

	// ErrInvalidConfig indicates a rejected reconfiguration.
	ErrInvalidConfig = config.ErrInvalidConfig
)

// CommandError wraps a failed command with the body it addressed.
type CommandError struct {
	Op      string
	ID      body.ID
	Wrapped error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s body %d: %v", e.Op, e.ID, e.Wrapped)
}

func (e *CommandError) Unwrap() error {
	return e.Wrapped
}
