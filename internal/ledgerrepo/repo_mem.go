// Package ledgerrepo manages the in-memory data access layer of the ledger.
package ledgerrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teya/ledger/internal/domain"
	"github.com/teya/ledger/pkg/errorspkg"
)

// maxCreateRetries bounds account id regeneration on uuid collision.
const maxCreateRetries = 5

// accountState is the authoritative state of one account. The mutex guards
// both fields so the balance check and the matching log append commit as one
// unit.
type accountState struct {
	mu           sync.Mutex
	createdAt    time.Time
	balance      decimal.Decimal
	transactions []domain.Transaction
}

// RepoMem is an in-memory account store. The directory lock guards only the
// account map itself; operations on different accounts never serialize
// against each other.
type RepoMem struct {
	mu       sync.RWMutex
	accounts map[string]*accountState
}

// NewRepoMem returns an empty in-memory account store.
func NewRepoMem() *RepoMem {
	return &RepoMem{accounts: make(map[string]*accountState)}
}

// Create allocates an account with a fresh unique id, zero balance and an
// empty transaction log.
func (r *RepoMem) Create(ctx context.Context) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxCreateRetries; i++ {
		id := uuid.NewString()
		if _, ok := r.accounts[id]; ok {
			continue
		}

		state := &accountState{
			createdAt: time.Now().UTC(),
			balance:   decimal.Zero,
		}
		r.accounts[id] = state

		return domain.Account{
			ID:        id,
			Balance:   state.balance.String(),
			CreatedAt: state.createdAt,
		}, nil
	}

	return domain.Account{}, errorspkg.ErrInternal
}

func (r *RepoMem) get(accountID string) (*accountState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.accounts[accountID]

	return state, ok
}

// GetBalance returns the current balance of the given account.
func (r *RepoMem) GetBalance(ctx context.Context, accountID string) (string, error) {
	state, ok := r.get(accountID)
	if !ok {
		return "", domain.ErrAccountNotFound
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	return state.balance.String(), nil
}

// ListTransactions returns the account's transactions sorted by timestamp
// descending. Transactions with equal timestamps keep their application
// order.
func (r *RepoMem) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	state, ok := r.get(accountID)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	state.mu.Lock()
	transactions := make([]domain.Transaction, len(state.transactions))
	copy(transactions, state.transactions)
	state.mu.Unlock()

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})

	return transactions, nil
}

// Apply commits a transaction against the account as a single critical
// section: the balance check, the balance update and the log append all
// happen under the account lock, so two concurrent withdrawals can never
// jointly overdraw the account. A failed Apply leaves the account untouched.
func (r *RepoMem) Apply(ctx context.Context, accountID string, amount decimal.Decimal, transactionType domain.TransactionType) (domain.Transaction, error) {
	state, ok := r.get(accountID)
	if !ok {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	var newBalance decimal.Decimal

	switch transactionType {
	case domain.Deposit:
		newBalance = state.balance.Add(amount)
	case domain.Withdrawal:
		if state.balance.LessThan(amount) {
			return domain.Transaction{}, domain.ErrInsufficientBalance
		}

		newBalance = state.balance.Sub(amount)
	default:
		return domain.Transaction{}, domain.ErrUnsupportedTransactionType
	}

	transaction := domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount.String(),
		Type:      transactionType,
		Timestamp: time.Now().UTC(),
	}

	state.balance = newBalance
	state.transactions = append(state.transactions, transaction)

	return transaction, nil
}
