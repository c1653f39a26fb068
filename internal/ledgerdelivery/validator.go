package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/teya/ledger/internal/domain"
)

// ValidTransactionType validates whether the transaction type is supported.
var ValidTransactionType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return t == string(domain.Deposit) || t == string(domain.Withdrawal)
	}

	return false
}
