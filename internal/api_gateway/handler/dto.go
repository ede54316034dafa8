package handler

import (
	"time"

	"github.com/agent-dashboard/internal/api_gateway/service"
	"github.com/agent-dashboard/internal/domain/account"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/agent-dashboard/internal/session"
	"github.com/agent-dashboard/internal/transition"
)

// LoginRequest represents the agent credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token of the new session
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// AccountResponse represents the session's account in API responses
type AccountResponse struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	LogoURL  string `json:"logo_url"`
	Status   string `json:"status"`
}

// SessionResponse represents the current session
type SessionResponse struct {
	Account   AccountResponse `json:"account"`
	CreatedAt string          `json:"created_at"`
	LastSeen  string          `json:"last_seen"`
}

// ConfirmRequest carries the external reference required to confirm a withdrawal
type ConfirmRequest struct {
	TrxID string `json:"trx_id"`
}

// RejectRequest carries the reason required to reject a deposit
type RejectRequest struct {
	Reason string `json:"reason"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionNumber  string `json:"transaction_number"`
	Class              string `json:"class"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	Agent              string `json:"agent"`
	Status             string `json:"status"`
	TrxID              string `json:"trx_id,omitempty"`
	RejectionReason    string `json:"rejection_reason,omitempty"`
	Method             string `json:"method"`
	AccountNumber      string `json:"account_number,omitempty"`
	UserID             string `json:"user_id"`
	Commission         string `json:"commission"`
	CommissionCurrency string `json:"commission_currency"`
}

// TransactionListResponse represents a listing view in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Counts       reconciliation.Counts `json:"counts"`
}

// DashboardResponse represents the merged summary
type DashboardResponse struct {
	Counts reconciliation.Counts `json:"counts"`
	Recent []TransactionResponse `json:"recent"`
}

// TransitionResponse reports an accepted confirm or reject
type TransitionResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Status      string              `json:"status"`
	Commission  string              `json:"commission"`
	Currency    string              `json:"currency"`
	Message     string              `json:"message"`
	Reloaded    bool                `json:"reloaded"`
}

// CommissionLineResponse is one confirmed transaction with its commission
type CommissionLineResponse struct {
	TransactionNumber string `json:"transaction_number"`
	Class             string `json:"class"`
	Amount            string `json:"amount"`
	Commission        string `json:"commission"`
	Currency          string `json:"currency"`
	Date              string `json:"date"`
}

// CurrencyTotalResponse is the commission total of one currency
type CurrencyTotalResponse struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

// CommissionReportResponse represents the commission report
type CommissionReportResponse struct {
	Lines       []CommissionLineResponse `json:"lines"`
	Totals      []CurrencyTotalResponse  `json:"totals"`
	GeneratedAt string                   `json:"generated_at"`
}

// ListParams represents status filter and pagination parameters for listing endpoints
type ListParams struct {
	Status  string `form:"status"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	PerPage int    `form:"per_page,default=100" binding:"min=1,max=500"`
}

func mapAccountToResponse(acc account.Account) AccountResponse {
	return AccountResponse{
		Username: acc.Username,
		FullName: acc.FullName,
		LogoURL:  acc.LogoURL,
		Status:   acc.Status,
	}
}

func mapSessionToResponse(snap session.Snapshot) SessionResponse {
	return SessionResponse{
		Account:   mapAccountToResponse(snap.Account),
		CreatedAt: snap.CreatedAt.Format(time.RFC3339),
		LastSeen:  snap.LastSeen.Format(time.RFC3339),
	}
}

// mapTransactionToResponse maps a transaction to its DTO. Status is the source
// text for unrecognised values.
func mapTransactionToResponse(t *transaction.Transaction) TransactionResponse {
	status := t.Status.SheetValue()
	if status == "" {
		status = t.RawStatus
	}
	return TransactionResponse{
		TransactionNumber:  t.Number,
		Class:              t.Class.Label(),
		Amount:             t.Amount.String(),
		Currency:           t.Currency,
		Agent:              t.Agent,
		Status:             status,
		TrxID:              t.ReferenceID,
		RejectionReason:    t.RejectionReason,
		Method:             t.Method,
		AccountNumber:      t.AccountNumber,
		UserID:             t.UserID,
		Commission:         transaction.FormatCommission(t.Commission()),
		CommissionCurrency: t.CommissionCurrency(),
	}
}

func mapTransactions(txns []*transaction.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, mapTransactionToResponse(t))
	}
	return out
}

func mapDashboardToResponse(summary *service.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		Counts: summary.Counts,
		Recent: mapTransactions(summary.Recent),
	}
}

func mapResultToResponse(r *transition.Result) TransitionResponse {
	return TransitionResponse{
		Transaction: mapTransactionToResponse(r.Transaction),
		Status:      r.Status.SheetValue(),
		Commission:  transaction.FormatCommission(r.Commission),
		Currency:    r.Currency,
		Message:     r.Message,
		Reloaded:    r.Reloaded,
	}
}

func mapCommissionReportToResponse(r *reconciliation.CommissionReport) CommissionReportResponse {
	resp := CommissionReportResponse{
		Lines:       make([]CommissionLineResponse, 0, len(r.Lines)),
		Totals:      make([]CurrencyTotalResponse, 0, len(r.Totals)),
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
	}
	for _, line := range r.Lines {
		resp.Lines = append(resp.Lines, CommissionLineResponse{
			TransactionNumber: line.Transaction.Number,
			Class:             line.Transaction.Class.Label(),
			Amount:            line.Transaction.Amount.String(),
			Commission:        transaction.FormatCommission(line.Commission),
			Currency:          line.Currency,
			Date:              line.Date.Format(time.RFC3339),
		})
	}
	for _, total := range r.Totals {
		resp.Totals = append(resp.Totals, CurrencyTotalResponse{
			Currency: total.Currency,
			Total:    transaction.FormatCommission(total.Total),
		})
	}
	return resp
}
