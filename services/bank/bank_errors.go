package bank

import "fmt"

var (
	ErrProviderUnavailable = fmt.Errorf("FIAT Provider does not exist")
	ErrAccountResolution   = fmt.Errorf("could not resolve account with provider")
	ErrNameMismatch        = fmt.Errorf("account name does not match seller name")
	ErrNameMatchWeak       = fmt.Errorf("account name is too weak a match for automatic verification")
)
