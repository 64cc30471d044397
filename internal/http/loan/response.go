package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/loan"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

type loanResponse struct {
	ID                uuid.UUID       `json:"id"`
	BorrowerAccountID uuid.UUID       `json:"borrower_account_id"`
	LenderAccountID   *uuid.UUID      `json:"lender_account_id,omitempty"`
	Principal         decimal.Decimal `json:"principal"`
	PrincipalDisplay  string          `json:"principal_display"`
	Currency          money.Currency  `json:"currency"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	StartDate         string          `json:"start_date"`
	EndDate           *string         `json:"end_date,omitempty"`
	TermMonths        *int            `json:"term_months,omitempty"`
	InstallmentCount  *int            `json:"installment_count,omitempty"`
	PaymentFrequency  loan.Frequency  `json:"payment_frequency"`
	Status            loan.Status     `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return new(t.Format(time.DateOnly))
}

func toLoanResponse(l *loan.Loan) loanResponse {
	return loanResponse{
		ID:                l.ID,
		BorrowerAccountID: l.BorrowerAccountID,
		LenderAccountID:   l.LenderAccountID,
		Principal:         l.Principal,
		PrincipalDisplay:  money.Format(l.Principal, l.Currency),
		Currency:          l.Currency,
		InterestRate:      l.InterestRate,
		StartDate:         l.StartDate.Format(time.DateOnly),
		EndDate:           formatDate(l.EndDate),
		TermMonths:        l.TermMonths,
		InstallmentCount:  l.InstallmentCount,
		PaymentFrequency:  l.PaymentFrequency,
		Status:            l.Status,
		Notes:             l.Notes,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func toLoanResponseList(loans []*loan.Loan) []loanResponse {
	resp := make([]loanResponse, len(loans))
	for i, l := range loans {
		resp[i] = toLoanResponse(l)
	}

	return resp
}

type installmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	Sequence         int             `json:"sequence"`
	DueDate          string          `json:"due_date"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
	FeesAmount       decimal.Decimal `json:"fees_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalDisplay     string          `json:"total_display"`
	Paid             bool            `json:"paid"`
	PaidDate         *string         `json:"paid_date,omitempty"`
	PaymentAccountID *uuid.UUID      `json:"payment_account_id,omitempty"`
}

func toInstallmentResponse(inst *loan.Installment, c money.Currency) installmentResponse {
	return installmentResponse{
		ID:               inst.ID,
		LoanID:           inst.LoanID,
		Sequence:         inst.Sequence,
		DueDate:          inst.DueDate.Format(time.DateOnly),
		PrincipalAmount:  inst.PrincipalAmount,
		InterestAmount:   inst.InterestAmount,
		FeesAmount:       inst.FeesAmount,
		TotalAmount:      inst.TotalAmount,
		TotalDisplay:     money.Format(inst.TotalAmount, c),
		Paid:             inst.Paid,
		PaidDate:         formatDate(inst.PaidDate),
		PaymentAccountID: inst.PaymentAccountID,
	}
}

func toInstallmentResponseList(insts []*loan.Installment, c money.Currency) []installmentResponse {
	resp := make([]installmentResponse, len(insts))
	for i, inst := range insts {
		resp[i] = toInstallmentResponse(inst, c)
	}

	return resp
}

type dueResponse struct {
	Loan        loanResponse        `json:"loan"`
	Installment installmentResponse `json:"installment"`
}

type summaryResponse struct {
	Loan             loanResponse          `json:"loan"`
	Installments     []installmentResponse `json:"installments"`
	PaidCount        int                   `json:"paid_count"`
	TotalPrincipal   decimal.Decimal       `json:"total_principal"`
	TotalInterest    decimal.Decimal       `json:"total_interest"`
	TotalFees        decimal.Decimal       `json:"total_fees"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	NextDue          *installmentResponse  `json:"next_due,omitempty"`
}

func toSummaryResponse(s *loan.Summary) summaryResponse {
	resp := summaryResponse{
		Loan:             toLoanResponse(s.Loan),
		Installments:     toInstallmentResponseList(s.Installments, s.Loan.Currency),
		PaidCount:        s.PaidCount,
		TotalPrincipal:   s.TotalPrincipal,
		TotalInterest:    s.TotalInterest,
		TotalFees:        s.TotalFees,
		TotalPaid:        s.TotalPaid,
		TotalOutstanding: s.TotalOutstanding,
	}

	if s.NextDue != nil {
		resp.NextDue = new(toInstallmentResponse(s.NextDue, s.Loan.Currency))
	}

	return resp
}
