package infra

import (
	"context"

	apikeyrepo "github.com/amirasaad/walletd/infra/repository/apikey"
	transactionrepo "github.com/amirasaad/walletd/infra/repository/transaction"
	userrepo "github.com/amirasaad/walletd/infra/repository/user"
	walletrepo "github.com/amirasaad/walletd/infra/repository/wallet"
	"github.com/amirasaad/walletd/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// All repositories handed out inside Do are bound to the same *gorm.DB
// transaction, so the bounded set of reads and writes commits or rolls back
// as a whole.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs the given function in a transaction boundary, providing a UoW with
// repository access. Outside Do, repositories run against the base session.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the transaction when inside Do, the base DB otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return userrepo.New(u.session()), nil
}

// WalletRepository implements repository.UnitOfWork.
func (u *UoW) WalletRepository() (repository.WalletRepository, error) {
	return walletrepo.New(u.session()), nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return transactionrepo.New(u.session()), nil
}

// APIKeyRepository implements repository.UnitOfWork.
func (u *UoW) APIKeyRepository() (repository.APIKeyRepository, error) {
	return apikeyrepo.New(u.session()), nil
}
