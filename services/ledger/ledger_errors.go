package ledger

import "fmt"

var (
	ErrWalletNotFound      = fmt.Errorf("wallet not found")
	ErrInvalidAmount       = fmt.Errorf("amount must be greater than zero")
	ErrInsufficientBalance = fmt.Errorf("insufficient balance")
	ErrLedgerWrite         = fmt.Errorf("ledger write failed")
)
