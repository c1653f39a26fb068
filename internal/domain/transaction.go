package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount indicates that the transaction amount is not strictly positive.
	ErrInvalidAmount = errors.New("transaction amount must be greater than zero")
	// ErrInsufficientBalance indicates that a withdrawal exceeds the current balance.
	ErrInsufficientBalance = errors.New("account has insufficient balance for this transaction")
	// ErrUnsupportedTransactionType indicates a transaction type outside the known set.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
)

// TransactionType enumerates the supported balance change directions.
type TransactionType string

// Supported transaction types.
const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction holds a single immutable balance change of an account.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	AccountID string          `json:"accountId"`
	Amount    string          `json:"amount"`
	Type      TransactionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}
