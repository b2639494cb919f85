package service

import "errors"

// Sentinel errors for the must-be-correct settlement path. Handlers map these
// to HTTP statuses; anything else is a persistence failure surfaced as-is.
var (
	// ErrNoActiveShift: settlement or cash movement attempted with no open
	// shift. The operator must open a shift before retrying.
	ErrNoActiveShift = errors.New("no open cash shift")

	// ErrShiftConflict: attempt to open a shift while one is already open.
	ErrShiftConflict = errors.New("a cash shift is already open")

	// ErrShiftClosed: the targeted shift is already closed.
	ErrShiftClosed = errors.New("the cash shift is already closed")

	// ErrInsufficientPayment: tendered amounts fall short of the total.
	// Nothing is mutated.
	ErrInsufficientPayment = errors.New("tendered amount is less than the total")

	// ErrChangeWithoutCash: the customer overpaid but no cash tender exists to
	// hand change back from.
	ErrChangeWithoutCash = errors.New("change requires a cash payment")

	// ErrSettlementInProgress: a settlement for the same order is already in
	// flight (e.g. a double-tapped charge button).
	ErrSettlementInProgress = errors.New("settlement already in progress for this order")

	// ErrOrderNotPending: the referenced external order cannot be settled
	// from its current status.
	ErrOrderNotPending = errors.New("order is not pending")
)
