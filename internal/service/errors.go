package service

import "errors"

var (
	ErrUnknownRaffle   = errors.New("unknown raffle")
	ErrUnknownCreation = errors.New("unknown creation")
	ErrRaffleClosed    = errors.New("raffle is closed")
	ErrAlreadyClosed   = errors.New("raffle already closed")
	ErrRaffleNotEnded  = errors.New("raffle end time not reached")
	ErrUnauthorized    = errors.New("caller is not authorized")

	ErrInsufficientPayment = errors.New("payment below ticket price")
	ErrInvalidCreation     = errors.New("invalid creation request")

	ErrOwnershipCheckFailed = errors.New("prize ownership check failed")
	ErrOwnershipMismatch    = errors.New("prize is not held by the custodian")
)
