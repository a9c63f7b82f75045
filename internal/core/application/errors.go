package application

import "errors"

var (
	// ErrSessionBusy is returned when starting a crypto checkout while the
	// conversation already has one with a submission in flight or pending
	// reconciliation.
	ErrSessionBusy = errors.New(
		"another checkout for this conversation is being submitted, try again later",
	)
	// ErrStillUnresolved is returned by reconciliation when the settlement
	// service has no final outcome yet for the submission.
	ErrStillUnresolved = errors.New(
		"settlement outcome is still unknown, do not submit a new payment",
	)
)
