package domain

import "errors"

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("fiat amount must be a positive decimal")
	// ErrInvalidAsset ...
	ErrInvalidAsset = errors.New("asset symbol must not be empty")
	// ErrInvalidQuote is returned when a price source replies with a
	// non-positive rate or settlement amount. Such a quote is never stored.
	ErrInvalidQuote = errors.New("quote rate and settlement amount must be positive")
	// ErrInvalidPreview ...
	ErrInvalidPreview = errors.New("required source amount must be positive")
	// ErrInvalidSlippageBound ...
	ErrInvalidSlippageBound = errors.New("slippage bound must be within [0, 100)")
	// ErrSlippageExceeded ...
	ErrSlippageExceeded = errors.New("simulated slippage bound exceeds the configured ceiling")
	// ErrQuoteExpired ...
	ErrQuoteExpired = errors.New("quote has expired, a new checkout must be started")

	// ErrCheckoutMustBeDetecting ...
	ErrCheckoutMustBeDetecting = errors.New("checkout must be in detecting assets status")
	// ErrCheckoutMustBeQuoting ...
	ErrCheckoutMustBeQuoting = errors.New("checkout must be in quoting status")
	// ErrCheckoutMustBePreviewing ...
	ErrCheckoutMustBePreviewing = errors.New("checkout must be in previewing swap status")
	// ErrCheckoutMustBeAwaitingConfirmation ...
	ErrCheckoutMustBeAwaitingConfirmation = errors.New("checkout must be awaiting confirmation")
	// ErrCheckoutMustBeSubmitting ...
	ErrCheckoutMustBeSubmitting = errors.New("checkout must be in submitting status")
	// ErrCheckoutMustBeUnresolved ...
	ErrCheckoutMustBeUnresolved = errors.New("checkout must be in unresolved status")
	// ErrCheckoutUnresolved is returned when attempting to cancel or restart a
	// checkout whose submission outcome is still unknown. The session must be
	// reconciled first, otherwise the buyer could be charged twice.
	ErrCheckoutUnresolved = errors.New(
		"checkout has a submission with unknown outcome and must be reconciled",
	)
	// ErrTxIdAlreadySet ...
	ErrTxIdAlreadySet = errors.New("transaction id is already set for this checkout")
)
