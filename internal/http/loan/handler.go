package loan

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/request"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/loan"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

type Handler struct {
	svc *loan.Service
}

func NewHandler(svc *loan.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/debt", h.totalDebt)
	r.Get("/next-due", h.nextDue)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/installments", h.installments)
	r.Get("/{id}/summary", h.summary)
	r.Post("/{id}/close", h.close)
	r.Post("/{id}/default", h.markDefaulted)
}

func (h *Handler) InstallmentRoutes(r chi.Router) {
	r.Post("/{id}/pay", h.pay)
}

type createLoanRequest struct {
	BorrowerAccountID string         `json:"borrower_account_id"`
	LenderAccountID   *string        `json:"lender_account_id,omitempty"`
	Principal         string         `json:"principal"`
	Currency          string         `json:"currency"`
	InterestRate      *string        `json:"interest_rate,omitempty"`
	StartDate         string         `json:"start_date"`
	EndDate           *string        `json:"end_date,omitempty"`
	TermMonths        *int           `json:"term_months,omitempty"`
	InstallmentCount  *int           `json:"installment_count,omitempty"`
	PaymentFrequency  loan.Frequency `json:"payment_frequency"`
	Notes             string         `json:"notes"`
}

func (req createLoanRequest) params() (loan.CreateParams, error) {
	p := loan.CreateParams{
		Currency:         money.Currency(strings.ToUpper(req.Currency)),
		TermMonths:       req.TermMonths,
		InstallmentCount: req.InstallmentCount,
		PaymentFrequency: req.PaymentFrequency,
		Notes:            req.Notes,
	}

	var err error

	if p.BorrowerAccountID, err = request.ParseID("borrower_account_id", req.BorrowerAccountID); err != nil {
		return p, err
	}

	if p.LenderAccountID, err = request.OptionalID("lender_account_id", req.LenderAccountID); err != nil {
		return p, err
	}

	if p.Principal, err = money.ParseAmount("principal", req.Principal); err != nil {
		return p, err
	}

	if p.InterestRate, err = request.OptionalAmount("interest_rate", req.InterestRate); err != nil {
		return p, err
	}

	if p.StartDate, err = request.ParseDate("start_date", req.StartDate); err != nil {
		return p, err
	}

	if p.EndDate, err = request.OptionalDate("end_date", req.EndDate); err != nil {
		return p, err
	}

	return p, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := req.params()
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toLoanResponse(l))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := loan.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := loan.Status(s)
		if !status.Valid() {
			respond.BadRequest(w, "unknown status "+s)
			return
		}

		filter.Status = &status
	}

	loans, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLoanResponseList(loans))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLoanResponse(l))
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

func (h *Handler) installments(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	insts, err := h.svc.Installments(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toInstallmentResponseList(insts, l.Currency))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	sum, err := h.svc.Summary(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Close)
}

func (h *Handler) markDefaulted(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Default)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*loan.Loan, error)) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := op(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toLoanResponse(l))
}

type totalDebtResponse struct {
	TotalDebt decimal.Decimal `json:"total_debt"`
}

func (h *Handler) totalDebt(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.TotalDebt(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, totalDebtResponse{TotalDebt: total})
}

// nextDue answers 204 when no Active loan has an unpaid installment.
func (h *Handler) nextDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.svc.NextPaymentDue(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if due == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respond.JSON(w, http.StatusOK, dueResponse{
		Loan:        toLoanResponse(due.Loan),
		Installment: toInstallmentResponse(due.Installment, due.Loan.Currency),
	})
}

type payInstallmentRequest struct {
	PaymentAccountID string `json:"payment_account_id"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, err := request.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req payInstallmentRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	accountID, err := request.ParseID("payment_account_id", req.PaymentAccountID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	inst, err := h.svc.MarkInstallmentAsPaid(r.Context(), id, accountID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Get(r.Context(), inst.LoanID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toInstallmentResponse(inst, l.Currency))
}
