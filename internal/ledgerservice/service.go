// Package ledgerservice manages business logic layer of the ledger.
package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/teya/ledger/internal/domain"
)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Create(ctx context.Context) (domain.Account, error)
	GetBalance(ctx context.Context, accountID string) (string, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	Apply(ctx context.Context, accountID string, amount decimal.Decimal, transactionType domain.TransactionType) (domain.Transaction, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo Repo
}

// New returns ledger service struct to manage ledger business logic.
func New(lr Repo) *Service {
	return &Service{repo: lr}
}

// CreateAccount creates and returns an account with zero balance.
func (s *Service) CreateAccount(ctx context.Context) (domain.Account, error) {
	account, err := s.repo.Create(ctx)
	if err != nil {
		return account, err
	}

	return account, nil
}

// GetBalance returns the current balance of the given account.
func (s *Service) GetBalance(ctx context.Context, accountID string) (string, error) {
	balance, err := s.repo.GetBalance(ctx, accountID)
	if err != nil {
		return "", err
	}

	return balance, nil
}

// ListTransactions returns the account's transactions, most recent first.
func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	transactions, err := s.repo.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// CreateTransaction validates the amount and applies the transaction to the
// account. The amount is validated before the account is consulted, so a
// non-positive amount fails with domain.ErrInvalidAmount even when the
// account does not exist.
func (s *Service) CreateTransaction(ctx context.Context, accountID, amount string, transactionType domain.TransactionType) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	transaction, err := s.repo.Apply(ctx, accountID, amountDecimal, transactionType)
	if err != nil {
		return domain.Transaction{}, err
	}

	return transaction, nil
}
