package auction

import "errors"

var (
	// ErrInvalidRequest marks an order request missing mandatory fields.
	// The request is rejected; no delivery order is created.
	ErrInvalidRequest = errors.New("invalid order request")

	// ErrNoCandidates is returned by winner selection on an empty pool.
	// It triggers the configured fallback policy.
	ErrNoCandidates = errors.New("no candidatures received")

	// ErrDuplicateCandidature marks a second bid from the same courier on
	// the same order. The first bid stands; the duplicate is dropped.
	ErrDuplicateCandidature = errors.New("duplicate candidature")

	// ErrStaleCandidature marks a bid addressed to another order observed
	// on the shared channel. It is normal cross-traffic, never an error
	// for the sender.
	ErrStaleCandidature = errors.New("candidature for another order")
)
