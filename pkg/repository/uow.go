package repository

import "context"

// UnitOfWork defines the contract for transactional work and repository
// access bound to that transaction.
//
// All repositories obtained inside Do share one DB session, so the bounded
// set of reads and writes commits or rolls back as a whole, and the handle
// is released on every exit path including early error returns.
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// If the function returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	UserRepository() (UserRepository, error)
	WalletRepository() (WalletRepository, error)
	TransactionRepository() (TransactionRepository, error)
	APIKeyRepository() (APIKeyRepository, error)
}
