package ledger

import "errors"

var (
	// ErrInvalidInput marks a rejected add: blank name, blank cost or a
	// cost that is not a finite number. The store is never touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageFailure wraps any failed unit of work in the store.
	ErrStorageFailure = errors.New("storage failure")

	// ErrHalted is returned once a storage failure has stopped the ledger.
	// It matches ErrStorageFailure as well.
	ErrHalted = haltedError{}

	// ErrNotLoaded is returned by mutations issued before Load.
	ErrNotLoaded = errors.New("ledger not loaded")
)

type haltedError struct{}

func (haltedError) Error() string { return "ledger halted after storage failure" }

func (haltedError) Is(target error) bool { return target == ErrStorageFailure }

// User-visible messages.
const (
	invalidInputMessage   = "Please enter a valid item and cost."
	storageFailureMessage = "Storage failure; restart equipt."
)
