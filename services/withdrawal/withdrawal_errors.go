package withdrawal

import "fmt"

var (
	ErrNotFound               = fmt.Errorf("withdrawal request not found")
	ErrBelowMinimum           = fmt.Errorf("amount is below the minimum withdrawal")
	ErrBankNotVerified        = fmt.Errorf("bank account has not been verified")
	ErrInvalidBankDetails     = fmt.Errorf("bank details are incomplete or invalid")
	ErrDailyCapExceeded       = fmt.Errorf("daily withdrawal cap exceeded")
	ErrAlreadyProcessed       = fmt.Errorf("withdrawal request has already been processed")
	ErrInvalidTransition      = fmt.Errorf("withdrawal status transition not allowed")
	ErrCreateFailed           = fmt.Errorf("could not create withdrawal request")
	ErrCancelFailed           = fmt.Errorf("could not cancel withdrawal request")
	ErrReconciliationRequired = fmt.Errorf("wallet state requires manual reconciliation")
)
