package domain

import "errors"

var (
	ErrMemberNotFound             = errors.New("member not found")
	ErrMemberExists               = errors.New("member already placed")
	ErrInvalidSponsor             = errors.New("invalid sponsor")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrInvalidStateTransition     = errors.New("invalid state transition")
	ErrUnsupportedCurrency        = errors.New("unsupported currency")
	ErrDistributionPartialFailure = errors.New("distribution partially redirected to system fund")
	ErrInvalidAmount              = errors.New("invalid amount")
	ErrInvalidIBAN                = errors.New("invalid IBAN format")
	ErrInvalidTransaction         = errors.New("invalid transaction")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrNotQualifying              = errors.New("transaction does not qualify for distribution")
	ErrNotBinaryPlan              = errors.New("operation requires a binary plan")
	ErrInvalidCommissionTable     = errors.New("invalid commission table")
	ErrInvalidCareerLevels        = errors.New("invalid career levels")
	ErrRateUnavailable            = errors.New("exchange rate unavailable")
)
