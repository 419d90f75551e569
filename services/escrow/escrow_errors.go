package escrow

import "fmt"

var (
	ErrHoldNotFound    = fmt.Errorf("no escrow hold exists for this order")
	ErrDuplicateHold   = fmt.Errorf("a live escrow hold already exists for this order")
	ErrInvalidAmount   = fmt.Errorf("escrow amount must be greater than zero")
	ErrInvalidCode     = fmt.Errorf("delivery code does not match")
	ErrAlreadyReleased = fmt.Errorf("escrow hold is already settled")
)
