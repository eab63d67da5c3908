package definition

import "errors"

var (
	ErrNoConfigLoader           = errors.New("no config loader registered; use SetConfigLoader() or provide a file path")
	ErrConfigNameRequired       = errors.New("config name is required")
	ErrStateRequired            = errors.New("at least one state is required")
	ErrStateIDRequired          = errors.New("state id is required")
	ErrDuplicateStateID         = errors.New("duplicate state id")
	ErrInitialStateRequired     = errors.New("initial state is required")
	ErrInitialStateNotFound     = errors.New("initial state not found")
	ErrFinalStateHasTransitions = errors.New("final state must not declare transitions")
	ErrEventRequired            = errors.New("transition event is required")
	ErrDuplicateEvent           = errors.New("duplicate event for state")
	ErrTargetNotFound           = errors.New("transition target not found")
	ErrConfigNotFound           = errors.New("config not found")
)
