// Package fakes provides in-memory repository fakes honoring the same
// contracts as the gorm implementations, for service-level tests.
package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amirasaad/walletd/pkg/domain"
	"github.com/amirasaad/walletd/pkg/dto"
	"github.com/amirasaad/walletd/pkg/repository"
	"github.com/google/uuid"
)

// UoW is an in-memory unit of work. Do runs the function against the same
// store; there is no real transaction, which is fine for service tests that
// assert on outcomes rather than isolation.
type UoW struct {
	mu sync.Mutex

	users        map[uuid.UUID]*dto.UserRead
	wallets      map[uuid.UUID]*dto.WalletRead
	transactions map[uuid.UUID]*dto.TransactionRead
	apiKeys      map[uuid.UUID]*dto.APIKeyRead

	// Error hooks; when set, the matching operation fails with the value.
	// WalletCreateConflicts fails that many CreateIfAbsent calls with
	// domain.ErrAlreadyExists before letting one through, simulating wallet
	// number collisions.
	WalletCreateConflicts int
	UserGetErr            error
	DebitErr              error
	CreditErr             error
	TxCreateErr           error
}

// NewUoW creates an empty in-memory store.
func NewUoW() *UoW {
	return &UoW{
		users:        make(map[uuid.UUID]*dto.UserRead),
		wallets:      make(map[uuid.UUID]*dto.WalletRead),
		transactions: make(map[uuid.UUID]*dto.TransactionRead),
		apiKeys:      make(map[uuid.UUID]*dto.APIKeyRead),
	}
}

// Do implements repository.UnitOfWork.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

// UserRepository implements repository.UnitOfWork.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return &userRepo{u}, nil
}

// WalletRepository implements repository.UnitOfWork.
func (u *UoW) WalletRepository() (repository.WalletRepository, error) {
	return &walletRepo{u}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{u}, nil
}

// APIKeyRepository implements repository.UnitOfWork.
func (u *UoW) APIKeyRepository() (repository.APIKeyRepository, error) {
	return &apiKeyRepo{u}, nil
}

// SeedUser inserts a user directly into the store.
func (u *UoW) SeedUser(user *dto.UserRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[user.ID] = user
}

// SeedWallet inserts a wallet directly into the store.
func (u *UoW) SeedWallet(w *dto.WalletRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.wallets[w.ID] = w
}

// SeedTransaction inserts a transaction directly into the store.
func (u *UoW) SeedTransaction(t *dto.TransactionRead) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.transactions[t.ID] = t
}

// Wallet returns the current state of a wallet.
func (u *UoW) Wallet(id uuid.UUID) *dto.WalletRead {
	u.mu.Lock()
	defer u.mu.Unlock()
	if w, ok := u.wallets[id]; ok {
		cp := *w
		return &cp
	}
	return nil
}

// Transaction returns the current state of a transaction.
func (u *UoW) Transaction(id uuid.UUID) *dto.TransactionRead {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.transactions[id]; ok {
		cp := *t
		return &cp
	}
	return nil
}

// Transactions returns all stored transactions.
func (u *UoW) Transactions() []*dto.TransactionRead {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*dto.TransactionRead, 0, len(u.transactions))
	for _, t := range u.transactions {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

type userRepo struct{ u *UoW }

func (r *userRepo) Create(ctx context.Context, create dto.UserCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, existing := range r.u.users {
		if existing.Username == create.Username || existing.Email == create.Email {
			return domain.ErrAlreadyExists
		}
	}
	r.u.users[create.ID] = &dto.UserRead{
		ID:             create.ID,
		Username:       create.Username,
		Email:          create.Email,
		HashedPassword: create.Password,
		Names:          create.Names,
		CreatedAt:      time.Now(),
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if r.u.UserGetErr != nil {
		return nil, r.u.UserGetErr
	}
	if u, ok := r.u.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) GetByIdentity(ctx context.Context, identity string) (*dto.UserRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, u := range r.u.users {
		if u.Username == identity || u.Email == identity {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type walletRepo struct{ u *UoW }

func (r *walletRepo) CreateIfAbsent(ctx context.Context, create dto.WalletCreate) (bool, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if r.u.WalletCreateConflicts > 0 {
		r.u.WalletCreateConflicts--
		return false, domain.ErrAlreadyExists
	}
	for _, w := range r.u.wallets {
		if w.UserID == create.UserID {
			return false, nil
		}
	}
	for _, w := range r.u.wallets {
		if w.WalletNumber == create.WalletNumber {
			return false, domain.ErrAlreadyExists
		}
	}
	r.u.wallets[create.ID] = &dto.WalletRead{
		ID:           create.ID,
		UserID:       create.UserID,
		WalletNumber: create.WalletNumber,
		Balance:      create.Balance,
		CreatedAt:    time.Now(),
	}
	return true, nil
}

func (r *walletRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, w := range r.u.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *walletRepo) GetByNumber(ctx context.Context, walletNumber string) (*dto.WalletRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, w := range r.u.wallets {
		if w.WalletNumber == walletNumber {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *walletRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*dto.WalletRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if w, ok := r.u.wallets[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *walletRepo) Credit(ctx context.Context, id uuid.UUID, amount int64) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if r.u.CreditErr != nil {
		return r.u.CreditErr
	}
	w, ok := r.u.wallets[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Balance += amount
	return nil
}

func (r *walletRepo) Debit(ctx context.Context, id uuid.UUID, amount int64) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if r.u.DebitErr != nil {
		return r.u.DebitErr
	}
	w, ok := r.u.wallets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if w.Balance < amount {
		return domain.ErrInsufficientBalance
	}
	w.Balance -= amount
	return nil
}

type transactionRepo struct{ u *UoW }

func (r *transactionRepo) Create(ctx context.Context, create dto.TransactionCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if r.u.TxCreateErr != nil {
		return r.u.TxCreateErr
	}
	if create.Reference != "" {
		for _, t := range r.u.transactions {
			if t.Reference == create.Reference {
				return domain.ErrAlreadyExists
			}
		}
	}
	r.u.transactions[create.ID] = &dto.TransactionRead{
		ID:               create.ID,
		UserID:           create.UserID,
		Kind:             create.Kind,
		Status:           create.Status,
		Amount:           create.Amount,
		Reference:        create.Reference,
		SenderWalletID:   create.SenderWalletID,
		ReceiverWalletID: create.ReceiverWalletID,
		CreatedAt:        time.Now(),
		SettledAt:        create.SettledAt,
	}
	return nil
}

func (r *transactionRepo) GetByReference(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, t := range r.u.transactions {
		if t.Reference == reference {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *transactionRepo) GetByReferenceForUpdate(ctx context.Context, reference string) (*dto.TransactionRead, error) {
	return r.GetByReference(ctx, reference)
}

func (r *transactionRepo) Settle(ctx context.Context, id uuid.UUID, status string, settledAt time.Time) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	t, ok := r.u.transactions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if t.Status != "PENDING" {
		return domain.ErrTransactionSettled
	}
	t.Status = status
	at := settledAt
	t.SettledAt = &at
	return nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, status *string, limit int) ([]*dto.TransactionRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*dto.TransactionRead
	for _, t := range r.u.transactions {
		if t.UserID != userID {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type apiKeyRepo struct{ u *UoW }

func (r *apiKeyRepo) Create(ctx context.Context, create dto.APIKeyCreate) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, k := range r.u.apiKeys {
		if k.KeyHash == create.KeyHash {
			return domain.ErrAlreadyExists
		}
	}
	r.u.apiKeys[create.ID] = &dto.APIKeyRead{
		ID:          create.ID,
		UserID:      create.UserID,
		Name:        create.Name,
		KeyHash:     create.KeyHash,
		Permissions: append([]string(nil), create.Permissions...),
		ExpiresAt:   create.ExpiresAt,
		CreatedAt:   time.Now(),
	}
	return nil
}

func (r *apiKeyRepo) Get(ctx context.Context, id uuid.UUID) (*dto.APIKeyRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if k, ok := r.u.apiKeys[id]; ok {
		cp := *k
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, keyHash string) (*dto.APIKeyRead, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, k := range r.u.apiKeys {
		if k.KeyHash == keyHash {
			cp := *k
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *apiKeyRepo) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var n int64
	for _, k := range r.u.apiKeys {
		if k.UserID == userID && !k.Revoked && k.ExpiresAt.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *apiKeyRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if k, ok := r.u.apiKeys[id]; ok {
		k.Revoked = true
	}
	return nil
}
