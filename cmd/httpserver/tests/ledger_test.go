//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/teya/ledger/internal/domain"
)

func createAccount(t *testing.T) string {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/accounts", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var res struct {
		AccountID string `json:"accountId"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	require.NotEmpty(t, res.AccountID)

	return res.AccountID
}

func createTransaction(t *testing.T, accountID string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	url := fmt.Sprintf("/accounts/%v/transactions", accountID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func getBalance(t *testing.T, accountID string) *httptest.ResponseRecorder {
	t.Helper()

	url := fmt.Sprintf("/accounts/%v/balance", accountID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func listTransactions(t *testing.T, accountID string) *httptest.ResponseRecorder {
	t.Helper()

	url := fmt.Sprintf("/accounts/%v/transactions", accountID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func requireBalance(t *testing.T, accountID, want string) {
	t.Helper()

	recorder := getBalance(t, accountID)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	require.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(res.Balance)),
		"balance: got %v, want %v", res.Balance, want)
}

func decodeTransactions(t *testing.T, recorder *httptest.ResponseRecorder) []domain.Transaction {
	t.Helper()

	require.Equal(t, http.StatusOK, recorder.Code)

	var res []domain.Transaction
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))

	return res
}

func TestDeposit(t *testing.T) {
	accountID := createAccount(t)

	recorder := createTransaction(t, accountID, gin.H{"amount": 100.00, "type": "DEPOSIT"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created domain.Transaction
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	require.Equal(t, accountID, created.AccountID)
	require.Equal(t, domain.Deposit, created.Type)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.Timestamp)

	requireBalance(t, accountID, "100.00")

	transactions := decodeTransactions(t, listTransactions(t, accountID))
	require.Len(t, transactions, 1)
	require.Equal(t, domain.Deposit, transactions[0].Type)
	require.True(t, decimal.RequireFromString("100.00").Equal(decimal.RequireFromString(transactions[0].Amount)))
}

func TestDepositWithdrawSequence(t *testing.T) {
	accountID := createAccount(t)

	for _, body := range []gin.H{
		{"amount": 100.00, "type": "DEPOSIT"},
		{"amount": 30.00, "type": "WITHDRAWAL"},
		{"amount": 50.00, "type": "DEPOSIT"},
	} {
		recorder := createTransaction(t, accountID, body)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	requireBalance(t, accountID, "120.00")

	transactions := decodeTransactions(t, listTransactions(t, accountID))
	require.Len(t, transactions, 3)

	for i := 1; i < len(transactions); i++ {
		require.False(t, transactions[i-1].Timestamp.Before(transactions[i].Timestamp),
			"transactions not sorted by timestamp descending")
	}
}

func TestWithdrawFromNewAccount(t *testing.T) {
	accountID := createAccount(t)

	recorder := createTransaction(t, accountID, gin.H{"amount": 50.00, "type": "WITHDRAWAL"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var res struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&res))
	require.Equal(t, domain.ErrInsufficientBalance.Error(), res.Error)

	requireBalance(t, accountID, "0")
}

func TestSubUnitPrecision(t *testing.T) {
	accountID := createAccount(t)

	recorder := createTransaction(t, accountID, gin.H{"amount": 0.01, "type": "DEPOSIT"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	requireBalance(t, accountID, "0.01")
}

func TestInvalidAmount(t *testing.T) {
	accountID := createAccount(t)

	for _, amount := range []float64{0, -10} {
		recorder := createTransaction(t, accountID, gin.H{"amount": amount, "type": "DEPOSIT"})
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	}

	requireBalance(t, accountID, "0")

	transactions := decodeTransactions(t, listTransactions(t, accountID))
	require.Empty(t, transactions)
}

func TestUnknownTransactionType(t *testing.T) {
	accountID := createAccount(t)

	recorder := createTransaction(t, accountID, gin.H{"amount": 10.00, "type": "TRANSFER"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUnknownAccount(t *testing.T) {
	require.Equal(t, http.StatusNotFound, getBalance(t, "no-such-account").Code)
	require.Equal(t, http.StatusNotFound, listTransactions(t, "no-such-account").Code)

	recorder := createTransaction(t, "no-such-account", gin.H{"amount": 10.00, "type": "DEPOSIT"})
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestConcurrentWithdrawals(t *testing.T) {
	accountID := createAccount(t)

	recorder := createTransaction(t, accountID, gin.H{"amount": 100.00, "type": "DEPOSIT"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	codes := make(chan int, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			payload, err := json.Marshal(gin.H{"amount": 60.00, "type": "WITHDRAWAL"})
			if err != nil {
				codes <- 0
				return
			}

			url := fmt.Sprintf("/accounts/%v/transactions", accountID)
			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				codes <- 0
				return
			}

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}

	wg.Wait()
	close(codes)

	var succeeded, failed int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			succeeded++
		case http.StatusBadRequest:
			failed++
		default:
			t.Errorf("unexpected status code %v", code)
		}
	}

	// Exactly one withdrawal wins; the account is never overdrawn.
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, failed)
	requireBalance(t, accountID, "40.00")
}
