// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

// ErrAccountNotFound indicates that the account is not found.
var ErrAccountNotFound = errors.New("account not found")

// Account holds the current balance of a single account.
//
// The balance is an exact decimal rendered as a string; it is never carried
// as a binary floating point value.
type Account struct {
	ID        string    `json:"accountId"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}
