package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a caller is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a caller is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
)

// Wallet and ledger errors
var (
	// ErrInvalidAmount is returned when an operation amount is zero or negative
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrUserNotFound is returned when the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrSenderWalletNotFound is returned when the sender has no wallet
	ErrSenderWalletNotFound = errors.New("sender wallet not found")
	// ErrRecipientWalletNotFound is returned when no wallet matches the recipient wallet number
	ErrRecipientWalletNotFound = errors.New("recipient wallet not found")
	// ErrWalletNotFound is returned when a wallet lookup fails
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrInsufficientBalance is returned when a debit would take a balance below zero
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSelfTransfer is returned when sender and recipient resolve to the same wallet
	ErrSelfTransfer = errors.New("cannot transfer to the same wallet")
	// ErrTransactionNotFound is returned when a transaction reference cannot be resolved
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionSettled is returned when a status write targets a
	// transaction that already holds a terminal status
	ErrTransactionSettled = errors.New("transaction already settled")
	// ErrAmountMismatch is returned when a webhook reports a different amount
	// than the pending transaction it references
	ErrAmountMismatch = errors.New("amount mismatch for transaction")
	// ErrInvalidStatusFilter is returned when a transaction listing is filtered
	// by a status outside the known set
	ErrInvalidStatusFilter = errors.New("invalid transaction status filter")
)

// Webhook trust errors
var (
	// ErrMissingSignature is returned when a webhook carries no signature header
	ErrMissingSignature = errors.New("missing webhook signature")
	// ErrInvalidSignature is returned when the webhook signature does not match
	// the MAC computed over the raw request body
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// API key errors
var (
	// ErrKeyCapExceeded is returned when a user already holds the maximum
	// number of active API keys
	ErrKeyCapExceeded = errors.New("active API key limit reached")
	// ErrKeyNotExpired is returned when rolling over a key that is still valid
	ErrKeyNotExpired = errors.New("API key has not expired yet")
	// ErrKeyNotFound is returned when the referenced API key does not exist
	ErrKeyNotFound = errors.New("API key not found")
)
