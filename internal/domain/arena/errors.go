package arena

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidClass           = errors.New("invalid class")
	ErrInvalidRequest         = errors.New("invalid request")
	ErrAgentAlreadyRegistered = errors.New("agent already registered")
	ErrAgentNotFound          = errors.New("agent not found")
	ErrMatchFull              = errors.New("match is full")
	ErrMatchFinished          = errors.New("match finished")
	ErrMatchNotStarted        = errors.New("match not started")
	ErrStaleTurn              = errors.New("stale turn")
	ErrInvalidRules           = errors.New("invalid rules")
)

// StaleTurnError carries both turn numbers so callers can resync.
type StaleTurnError struct {
	Submitted int
	Current   int
}

func (e *StaleTurnError) Error() string {
	return fmt.Sprintf("stale turn: submitted=%d current=%d", e.Submitted, e.Current)
}

func (e *StaleTurnError) Unwrap() error { return ErrStaleTurn }

func ruleError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRules, msg)
}
