package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/account"
	"github.com/MrJamesThe3rd/tally/internal/errs"
	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/request"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc    *account.Service
	ledger *transaction.Service
}

func NewHandler(svc *account.Service, ledger *transaction.Service) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/reconcile", h.reconcile)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createAccountRequest struct {
	OwnerID        string  `json:"owner_id"`
	Name           string  `json:"name"`
	Bank           string  `json:"bank"`
	Alias          string  `json:"alias"`
	InitialBalance string  `json:"initial_balance"`
	Currency       string  `json:"currency"`
	CommissionRate *string `json:"commission_rate,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := account.CreateParams{
		Name:     req.Name,
		Bank:     req.Bank,
		Alias:    req.Alias,
		Currency: money.Currency(strings.ToUpper(req.Currency)),
	}

	if owner, ok := auth.OwnerID(r.Context()); ok {
		params.OwnerID = owner
	} else {
		owner, err := request.ParseID("owner_id", req.OwnerID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.OwnerID = owner
	}

	if req.InitialBalance != "" {
		balance, err := money.ParseAmount("initial_balance", req.InitialBalance)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.InitialBalance = balance
	}

	rate, err := commissionRate(req.CommissionRate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if rate != nil {
		params.CommissionRate = *rate
	}

	acc, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(acc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := account.ListFilter{}

	if owner, ok := auth.OwnerID(r.Context()); ok {
		filter.OwnerID = &owner
	} else {
		owner, err := request.QueryID(r, "owner_id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.OwnerID = owner
	}

	accounts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(accounts))
}

// owned loads the account named by the path. With a token, accounts of other owners read as
// not found.
func (h *Handler) owned(r *http.Request) (*account.Account, error) {
	id, err := request.PathID(r, "id")
	if err != nil {
		return nil, err
	}

	acc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if owner, ok := auth.OwnerID(r.Context()); ok && acc.OwnerID != owner {
		return nil, errs.NotFound("account", id)
	}

	return acc, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(acc))
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	acc, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err := h.ledger.Reconcile(r.Context(), acc.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReconciliationResponse(rec))
}

type updateAccountRequest struct {
	Name  *string `json:"name,omitempty"`
	Bank  *string `json:"bank,omitempty"`
	Alias *string `json:"alias,omitempty"`
	// An empty string clears the commission rate.
	CommissionRate *string `json:"commission_rate,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	acc, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateAccountRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rate, err := commissionRate(req.CommissionRate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	acc, err = h.svc.Update(r.Context(), acc.ID, account.UpdateParams{
		Name:           req.Name,
		Bank:           req.Bank,
		Alias:          req.Alias,
		CommissionRate: rate,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(acc))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	acc, err := h.owned(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), acc.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// commissionRate returns nil when s is absent and an invalid NullDecimal when s is empty.
func commissionRate(s *string) (*decimal.NullDecimal, error) {
	if s == nil {
		return nil, nil
	}

	if *s == "" {
		return &decimal.NullDecimal{}, nil
	}

	d, err := money.ParseAmount("commission_rate", *s)
	if err != nil {
		return nil, err
	}

	return &decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
