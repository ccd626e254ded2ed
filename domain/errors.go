package domain

import "errors"

var (
	// ErrNotFound will throw if the requested item does not exist
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnregisteredCurrency is returned when a bid currency has no price
	// feed in the auction's snapshot
	ErrUnregisteredCurrency = errors.New("unregistered currency")
	// ErrStalePrice is returned when the oracle report predates the
	// configured staleness threshold
	ErrStalePrice = errors.New("stale price")
	// ErrBidTooLow is returned unless the normalized value strictly exceeds
	// the current highest bid
	ErrBidTooLow = errors.New("bid too low")
	// ErrAuctionNotActive is returned for bids placed at or after the
	// deadline, whether or not settlement has run
	ErrAuctionNotActive = errors.New("auction not active")
	// ErrNotYetEnded is returned when settlement is attempted before the
	// deadline
	ErrNotYetEnded = errors.New("auction not yet ended")
	// ErrAlreadySettled is returned by every settlement call after the first
	ErrAlreadySettled = errors.New("auction already settled")
	// ErrNothingToWithdraw is returned when the caller has no escrow balance
	// for the requested currency
	ErrNothingToWithdraw = errors.New("nothing to withdraw")
	// ErrTransferFailed is returned when an asset or fund movement through a
	// collaborator fails; no ledger state changes in that case
	ErrTransferFailed = errors.New("transfer failed")
	// ErrUnauthorized is returned for admin operations from non-admin callers
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIncompatibleLayout is returned when new logic cannot reinterpret the
	// persisted state layout
	ErrIncompatibleLayout = errors.New("incompatible state layout")
)
