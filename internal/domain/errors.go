package domain

import "errors"

// Ledger operation errors. Services return these unwrapped; handlers map
// them to HTTP status codes. Any of these aborts the whole transaction.
var (
	ErrInvalidValue             = errors.New("Value must be > 0")
	ErrInvalidShares            = errors.New("Shares must be > 0")
	ErrInsufficientAvailability = errors.New("Not enough shares available")
	ErrInsufficientPayment      = errors.New("Insufficient payment")
	ErrInsufficientFunds        = errors.New("Insufficient wallet balance")
	ErrInsufficientShares       = errors.New("Insufficient shares")
	ErrOfferNotActive           = errors.New("Offer is not active")
	ErrNoDividends              = errors.New("No dividends available")
	ErrFeeTooHigh               = errors.New("Fee too high")
	ErrUnauthorized             = errors.New("Unauthorized")
	ErrPropertyNotFound         = errors.New("Property not found")
	ErrOfferNotFound            = errors.New("Offer not found")
	ErrAccountNotFound          = errors.New("Account not found")
)
