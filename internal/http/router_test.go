package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/account"
	accountStore "github.com/MrJamesThe3rd/tally/internal/account/store"
	"github.com/MrJamesThe3rd/tally/internal/database/databasetest"
	apphttp "github.com/MrJamesThe3rd/tally/internal/http"
	accountHTTP "github.com/MrJamesThe3rd/tally/internal/http/account"
	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	loanHTTP "github.com/MrJamesThe3rd/tally/internal/http/loan"
	transactionHTTP "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/loan"
	loanStore "github.com/MrJamesThe3rd/tally/internal/loan/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	transactionStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type api struct {
	handler http.Handler
	token   string
}

func newAPI(t *testing.T, opts apphttp.Options) *api {
	db := databasetest.New(t)

	accounts := account.NewService(accountStore.New(db))
	ledger := transaction.NewService(transactionStore.New(db))
	loans := loan.NewService(loanStore.New(db))

	return &api{
		handler: apphttp.New(opts,
			accountHTTP.NewHandler(accounts, ledger),
			transactionHTTP.NewHandler(ledger),
			loanHTTP.NewHandler(loans),
		),
	}
}

func (a *api) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)

	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())

	return v
}

type accountBody struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balance_display"`
}

type idBody struct {
	ID uuid.UUID `json:"id"`
}

type txBody struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID *uuid.UUID `json:"category_id"`
}

type loanBody struct {
	ID      uuid.UUID   `json:"id"`
	Status  loan.Status `json:"status"`
	EndDate string      `json:"end_date"`
}

type installmentBody struct {
	ID          uuid.UUID       `json:"id"`
	Sequence    int             `json:"sequence"`
	DueDate     string          `json:"due_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Paid        bool            `json:"paid"`
}

func (a *api) createAccount(t *testing.T, owner uuid.UUID, name, balance string) uuid.UUID {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/api/v1/accounts", map[string]any{
		"owner_id":        owner.String(),
		"name":            name,
		"initial_balance": balance,
		"currency":        "usd",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	return decode[accountBody](t, rr).ID
}

func (a *api) balance(t *testing.T, id uuid.UUID) string {
	t.Helper()

	rr := a.do(t, http.MethodGet, "/api/v1/accounts/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	return decode[accountBody](t, rr).Balance.StringFixed(2)
}

func TestLedgerFlow(t *testing.T) {
	a := newAPI(t, apphttp.Options{})
	owner := uuid.New()

	accA := a.createAccount(t, owner, "checking", "1000")
	accB := a.createAccount(t, owner, "savings", "500")

	rr := a.do(t, http.MethodPost, "/api/v1/transactions", map[string]any{
		"from_account_id": accA,
		"to_account_id":   accB,
		"amount":          "200",
		"type":            "TRANSFER",
		"date":            "2025-03-10",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	txID := decode[idBody](t, rr).ID

	assert.Equal(t, "800.00", a.balance(t, accA))
	assert.Equal(t, "700.00", a.balance(t, accB))

	category := uuid.New()

	rr = a.do(t, http.MethodPatch, "/api/v1/transactions/"+txID.String(), map[string]any{
		"amount":      "50.25",
		"category_id": category,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, &category, decode[txBody](t, rr).CategoryID)

	// Omitting category_id keeps it; an explicit null clears it.
	rr = a.do(t, http.MethodPatch, "/api/v1/transactions/"+txID.String(), map[string]any{"description": "rent"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, &category, decode[txBody](t, rr).CategoryID)

	rr = a.do(t, http.MethodPatch, "/api/v1/transactions/"+txID.String(), map[string]any{"category_id": nil})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Nil(t, decode[txBody](t, rr).CategoryID)

	rr = a.do(t, http.MethodGet, "/api/v1/transactions/"+txID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[txBody](t, rr).CategoryID)

	assert.Equal(t, "949.75", a.balance(t, accA))
	assert.Equal(t, "550.25", a.balance(t, accB))

	rr = a.do(t, http.MethodGet, "/api/v1/accounts/"+accA.String()+"/reconcile", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rec := decode[struct {
		Derived    decimal.Decimal `json:"derived"`
		Consistent bool            `json:"consistent"`
	}](t, rr)
	assert.True(t, rec.Consistent)
	assert.Equal(t, "949.75", rec.Derived.StringFixed(2))

	rr = a.do(t, http.MethodGet, "/api/v1/transactions?account_id="+accB.String()+"&start_date=2025-03-01", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]idBody](t, rr), 1)

	rr = a.do(t, http.MethodDelete, "/api/v1/transactions/"+txID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	assert.Equal(t, "1000.00", a.balance(t, accA))
	assert.Equal(t, "500.00", a.balance(t, accB))

	rr = a.do(t, http.MethodGet, "/api/v1/transactions/"+txID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = a.do(t, http.MethodDelete, "/api/v1/accounts/"+accB.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestLedgerErrors(t *testing.T) {
	a := newAPI(t, apphttp.Options{})
	owner := uuid.New()
	accA := a.createAccount(t, owner, "checking", "1000")
	accB := a.createAccount(t, owner, "savings", "500")

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{
			name:     "ZeroAmount",
			body:     map[string]any{"from_account_id": accA, "to_account_id": accB, "amount": "0", "type": "TRANSFER", "date": "2025-03-10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "NotANumber",
			body:     map[string]any{"from_account_id": accA, "to_account_id": accB, "amount": "NaN", "type": "TRANSFER", "date": "2025-03-10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "SameAccountTransfer",
			body:     map[string]any{"from_account_id": accA, "to_account_id": accA, "amount": "5", "type": "TRANSFER", "date": "2025-03-10"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "BadDate",
			body:     map[string]any{"from_account_id": accA, "to_account_id": accB, "amount": "5", "type": "TRANSFER", "date": "10/03/2025"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "UnknownAccount",
			body:     map[string]any{"from_account_id": accA, "to_account_id": uuid.New(), "amount": "5", "type": "TRANSFER", "date": "2025-03-10"},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(t, http.MethodPost, "/api/v1/transactions", tc.body)
			assert.Equal(t, tc.wantCode, rr.Code, rr.Body.String())
		})
	}

	assert.Equal(t, "1000.00", a.balance(t, accA))
	assert.Equal(t, "500.00", a.balance(t, accB))

	rr := a.do(t, http.MethodGet, "/api/v1/accounts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoanFlow(t *testing.T) {
	a := newAPI(t, apphttp.Options{})
	borrower := a.createAccount(t, uuid.New(), "checking", "5000")

	rr := a.do(t, http.MethodPost, "/api/v1/loans", map[string]any{
		"borrower_account_id": borrower,
		"principal":           "1200",
		"currency":            "USD",
		"interest_rate":       "0.12",
		"start_date":          "2025-01-01",
		"installment_count":   12,
		"payment_frequency":   "Monthly",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[loanBody](t, rr)
	assert.Equal(t, loan.StatusActive, created.Status)
	assert.Equal(t, "2026-01-01", created.EndDate)

	rr = a.do(t, http.MethodGet, "/api/v1/loans/"+created.ID.String()+"/installments", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	insts := decode[[]installmentBody](t, rr)
	require.Len(t, insts, 12)
	assert.Equal(t, "2025-02-01", insts[0].DueDate)
	assert.Equal(t, "106.62", insts[0].TotalAmount.StringFixed(2))

	rr = a.do(t, http.MethodGet, "/api/v1/loans/debt", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	debt := decode[struct {
		TotalDebt decimal.Decimal `json:"total_debt"`
	}](t, rr)
	assert.Equal(t, "1279.44", debt.TotalDebt.StringFixed(2))

	rr = a.do(t, http.MethodGet, "/api/v1/loans/next-due", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	due := decode[struct {
		Installment installmentBody `json:"installment"`
	}](t, rr)
	assert.Equal(t, insts[0].ID, due.Installment.ID)

	for i, inst := range insts {
		rr := a.do(t, http.MethodPost, "/api/v1/installments/"+inst.ID.String()+"/pay",
			map[string]any{"payment_account_id": borrower})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.True(t, decode[installmentBody](t, rr).Paid)

		rr = a.do(t, http.MethodGet, "/api/v1/loans/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, rr.Code)

		want := loan.StatusActive
		if i == len(insts)-1 {
			want = loan.StatusClosed
		}

		assert.Equal(t, want, decode[loanBody](t, rr).Status, "after paying installment %d", inst.Sequence)
	}

	rr = a.do(t, http.MethodGet, "/api/v1/loans/next-due", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = a.do(t, http.MethodPost, "/api/v1/loans/"+created.ID.String()+"/default", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/v1/loans/"+created.ID.String()+"/summary", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	sum := decode[struct {
		PaidCount        int             `json:"paid_count"`
		TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	}](t, rr)
	assert.Equal(t, 12, sum.PaidCount)
	assert.True(t, sum.TotalOutstanding.IsZero())

	rr = a.do(t, http.MethodGet, "/api/v1/loans?status=Closed", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]loanBody](t, rr), 1)

	rr = a.do(t, http.MethodGet, "/api/v1/loans?status=Paid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(t, http.MethodDelete, "/api/v1/loans/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = a.do(t, http.MethodGet, "/api/v1/loans/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoanErrors(t *testing.T) {
	a := newAPI(t, apphttp.Options{})
	borrower := a.createAccount(t, uuid.New(), "checking", "5000")

	rr := a.do(t, http.MethodPost, "/api/v1/loans", map[string]any{
		"borrower_account_id": borrower,
		"principal":           "1200",
		"currency":            "USD",
		"interest_rate":       "-0.1",
		"start_date":          "2025-01-01",
		"installment_count":   12,
		"payment_frequency":   "Monthly",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = a.do(t, http.MethodPost, "/api/v1/installments/"+uuid.NewString()+"/pay",
		map[string]any{"payment_account_id": borrower})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuth(t *testing.T) {
	secret := "s3cret"
	a := newAPI(t, apphttp.Options{AuthSecret: secret})

	rr := a.do(t, http.MethodGet, "/api/v1/accounts", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	owner := uuid.New()
	token, err := auth.Sign([]byte(secret), owner, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	a.token = token

	// The token's owner wins over the body.
	id := a.createAccount(t, uuid.New(), "wallet", "10")

	rr = a.do(t, http.MethodGet, "/api/v1/accounts/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, owner, decode[accountBody](t, rr).OwnerID)

	rr = a.do(t, http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]accountBody](t, rr), 1)

	// Another owner's token sees none of it.
	a.token, err = auth.Sign([]byte(secret), uuid.New(), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	for _, req := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/v1/accounts/" + id.String(), nil},
		{http.MethodGet, "/api/v1/accounts/" + id.String() + "/reconcile", nil},
		{http.MethodPatch, "/api/v1/accounts/" + id.String(), map[string]string{"name": "mine now"}},
		{http.MethodDelete, "/api/v1/accounts/" + id.String(), nil},
	} {
		rr = a.do(t, req.method, req.path, req.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", req.method, req.path)
	}

	rr = a.do(t, http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]accountBody](t, rr))

	a.token = token

	rr = a.do(t, http.MethodGet, "/api/v1/accounts/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "wallet", decode[accountBody](t, rr).Name)

	rr = httptest.NewRecorder()
	a.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
