package loyalty

import "coffee-loyalty/internal/pkg/errs"

var (
	ErrRateLimited       = errs.New("scan rate limited")
	ErrNoFreeDrinks      = errs.New("no free drinks available")
	ErrInvalidCustomerID = errs.New("customer id must not be empty")
	ErrInvalidPolicy     = errs.New("threshold must be positive and cooldown non-negative")
	ErrCorruptState      = errs.New("customer state violates ledger invariants")
)
