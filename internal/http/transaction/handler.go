package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/request"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	FromAccountID string           `json:"from_account_id"`
	ToAccountID   string           `json:"to_account_id"`
	Amount        string           `json:"amount"`
	Type          transaction.Type `json:"type"`
	Date          string           `json:"date"`
	CategoryID    *string          `json:"category_id,omitempty"`
	AssetID       *string          `json:"asset_id,omitempty"`
	Description   string           `json:"description"`
}

func (req createTransactionRequest) params() (transaction.CreateParams, error) {
	var (
		p   transaction.CreateParams
		err error
	)

	if p.FromAccountID, err = request.ParseID("from_account_id", req.FromAccountID); err != nil {
		return p, err
	}

	if p.ToAccountID, err = request.ParseID("to_account_id", req.ToAccountID); err != nil {
		return p, err
	}

	if p.Amount, err = money.ParseAmount("amount", req.Amount); err != nil {
		return p, err
	}

	if p.Date, err = request.ParseDate("date", req.Date); err != nil {
		return p, err
	}

	if p.CategoryID, err = request.OptionalID("category_id", req.CategoryID); err != nil {
		return p, err
	}

	if p.AssetID, err = request.OptionalID("asset_id", req.AssetID); err != nil {
		return p, err
	}

	p.Type = req.Type
	p.Description = req.Description

	return p, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		filter transaction.ListFilter
		err    error
	)

	if filter.AccountID, err = request.QueryID(r, "account_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.CategoryID, err = request.QueryID(r, "category_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.AssetID, err = request.QueryID(r, "asset_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.StartDate, err = request.QueryDate(r, "start_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.EndDate, err = request.QueryDate(r, "end_date"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	FromAccountID *string           `json:"from_account_id,omitempty"`
	ToAccountID   *string           `json:"to_account_id,omitempty"`
	Amount        *string           `json:"amount,omitempty"`
	Type          *transaction.Type `json:"type,omitempty"`
	Date          *string           `json:"date,omitempty"`
	// null or "" clears the reference.
	CategoryID  request.NullableID `json:"category_id"`
	AssetID     request.NullableID `json:"asset_id"`
	Description *string            `json:"description,omitempty"`
}

func (req updateTransactionRequest) params() (transaction.UpdateParams, error) {
	p := transaction.UpdateParams{
		Type:        req.Type,
		Description: req.Description,
	}

	var err error

	ids := []struct {
		field string
		raw   *string
		dst   **uuid.UUID
	}{
		{"from_account_id", req.FromAccountID, &p.FromAccountID},
		{"to_account_id", req.ToAccountID, &p.ToAccountID},
	}

	for _, id := range ids {
		if *id.dst, err = request.OptionalID(id.field, id.raw); err != nil {
			return p, err
		}
	}

	refs := []struct {
		field string
		raw   request.NullableID
		dst   **uuid.UUID
		clear *bool
	}{
		{"category_id", req.CategoryID, &p.CategoryID, &p.ClearCategory},
		{"asset_id", req.AssetID, &p.AssetID, &p.ClearAsset},
	}

	for _, ref := range refs {
		id, set, err := ref.raw.Parse(ref.field)
		if err != nil {
			return p, err
		}

		*ref.dst = id
		*ref.clear = set && id == nil
	}

	if p.Amount, err = request.OptionalAmount("amount", req.Amount); err != nil {
		return p, err
	}

	if p.Date, err = request.OptionalDate("date", req.Date); err != nil {
		return p, err
	}

	return p, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}
