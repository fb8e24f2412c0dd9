package combat

import "errors"

// Every error below is recoverable: the call that returns it leaves the
// field exactly as it found it. Match with errors.Is.
var (
	ErrNotFound             = errors.New("unit not found")
	ErrAlreadyOccupied      = errors.New("grid index already occupied")
	ErrInvalidIndex         = errors.New("hand index out of range")
	ErrInsufficientBurnFuel = errors.New("not enough cards to burn")
	ErrOutOfRange           = errors.New("target out of range")
	ErrOwnerNotFound        = errors.New("card owner not found")
	ErrTargetNotFound       = errors.New("target not found")
	ErrInvalidHP            = errors.New("max hp must be positive")
	ErrInvalidCard          = errors.New("invalid card definition")
	ErrInvalidUnit          = errors.New("invalid unit template")
)
