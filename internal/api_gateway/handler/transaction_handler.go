package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/agent-dashboard/internal/api_gateway/middleware"
	"github.com/agent-dashboard/internal/api_gateway/service"
	"github.com/agent-dashboard/internal/domain/shared"
	"github.com/agent-dashboard/internal/domain/transaction"
	"github.com/agent-dashboard/internal/session"
	"github.com/agent-dashboard/internal/transition"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles HTTP requests for transaction views and transitions
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Dashboard returns counts and the most recent transactions over both tables
func (h *TransactionHandler) Dashboard(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	summary, err := h.transactionService.Dashboard(c.Request.Context(), snap.Token, snap.Account.Username)
	if err != nil {
		h.respondLoadError(c, "Error loading transactions. Please try again.", err)
		return
	}
	RespondOK(c, mapDashboardToResponse(summary))
}

// List returns the handler that loads one table, filtered by ?status= and paginated
func (h *TransactionHandler) List(class shared.TransactionClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := middleware.GetSession(c)
		if !ok {
			RespondUnauthorized(c, "")
			return
		}

		var params ListParams
		if err := c.ShouldBindQuery(&params); err != nil {
			h.logger.Error("Invalid list parameters", "error", err)
			RespondBadRequest(c, "Invalid list parameters")
			return
		}
		filter, err := shared.ParseStatusFilter(params.Status)
		if err != nil {
			RespondBadRequest(c, "Invalid status filter: "+params.Status)
			return
		}

		txns, counts, err := h.transactionService.List(c.Request.Context(), snap.Token, snap.Account.Username, class, filter)
		if err != nil {
			h.respondLoadError(c, fmt.Sprintf("Error loading %s transactions. Please try again.", class.Label()), err)
			return
		}

		total := len(txns)
		start, end := pageBounds(params.Page, params.PerPage, total)

		RespondWithPaginatedData(c, http.StatusOK, TransactionListResponse{
			Transactions: mapTransactions(txns[start:end]),
			Counts:       counts,
		}, params.Page, params.PerPage, total)
	}
}

// Get returns the handler that shows one transaction of the loaded view
func (h *TransactionHandler) Get(class shared.TransactionClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := middleware.GetSession(c)
		if !ok {
			RespondUnauthorized(c, "")
			return
		}

		number := c.Param("number")
		txn, err := h.transactionService.Get(c.Request.Context(), snap.Token, class, number)
		if err != nil {
			h.respondTransitionError(c, transition.ActionConfirm, err)
			return
		}
		RespondOK(c, mapTransactionToResponse(txn))
	}
}

// Confirm returns the handler for the confirm transition. Withdrawals require
// {"trx_id": "..."} in the body.
func (h *TransactionHandler) Confirm(class shared.TransactionClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := middleware.GetSession(c)
		if !ok {
			RespondUnauthorized(c, "")
			return
		}

		var req ConfirmRequest
		if class == shared.TransactionClassWithdrawal {
			if err := c.ShouldBindJSON(&req); err != nil {
				h.logger.Error("Invalid request body", "error", err)
				RespondBadRequest(c, "Invalid request body: "+err.Error())
				return
			}
		}

		result, err := h.transactionService.Confirm(c.Request.Context(), snap.Token, class, c.Param("number"), req.TrxID)
		if err != nil {
			h.respondTransitionError(c, transition.ActionConfirm, err)
			return
		}
		RespondOK(c, mapResultToResponse(result))
	}
}

// Reject returns the handler for the reject transition. Deposits require
// {"reason": "..."} in the body.
func (h *TransactionHandler) Reject(class shared.TransactionClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := middleware.GetSession(c)
		if !ok {
			RespondUnauthorized(c, "")
			return
		}

		var req RejectRequest
		if class == shared.TransactionClassDeposit {
			if err := c.ShouldBindJSON(&req); err != nil {
				h.logger.Error("Invalid request body", "error", err)
				RespondBadRequest(c, "Invalid request body: "+err.Error())
				return
			}
		}

		result, err := h.transactionService.Reject(c.Request.Context(), snap.Token, class, c.Param("number"), req.Reason)
		if err != nil {
			h.respondTransitionError(c, transition.ActionReject, err)
			return
		}
		RespondOK(c, mapResultToResponse(result))
	}
}

// Commissions returns the commission report over the viewer's confirmed transactions
func (h *TransactionHandler) Commissions(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	report, err := h.transactionService.Commissions(c.Request.Context(), snap.Account.Username)
	if err != nil {
		h.respondLoadError(c, "Error loading commission data. Please try again.", err)
		return
	}
	RespondOK(c, mapCommissionReportToResponse(report))
}

// pageBounds returns the slice bounds of page within total items. Pages past
// the end are empty; the bounds never overflow.
func pageBounds(page, perPage, total int) (int, int) {
	if page-1 >= (total+perPage-1)/perPage {
		return total, total
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}

func (h *TransactionHandler) respondLoadError(c *gin.Context, message string, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		RespondUnauthorized(c, "")
		return
	}
	RespondBadGateway(c, "READ_FAILURE", message)
}

// respondTransitionError maps transition and lookup errors onto status codes.
// The message is the operator-facing text for the condition.
func (h *TransactionHandler) respondTransitionError(c *gin.Context, action transition.Action, err error) {
	message := transition.UserMessage(action, err)

	var (
		validation transaction.ErrValidation
		notFound   transaction.ErrTransactionNotFound
		notPending transaction.ErrNotPending
		partial    transaction.ErrPartialWriteFailure
		noRecords  transaction.ErrNoRecordsUpdated
		failure    transaction.ErrWriteFailure
	)

	switch {
	case errors.As(err, &validation):
		RespondBadRequest(c, message)
	case errors.As(err, &notFound):
		RespondNotFound(c, message)
	case errors.As(err, &notPending), errors.Is(err, transaction.ErrTransitionInProgress), errors.Is(err, transaction.ErrViewNotLoaded):
		RespondConflict(c, message)
	case errors.As(err, &partial):
		failed := make([]string, 0, 2)
		for _, f := range partial.FailedFields() {
			failed = append(failed, string(f))
		}
		RespondPartialWriteFailure(c, message, failed)
	case errors.As(err, &noRecords):
		RespondNotFound(c, message)
	case errors.As(err, &failure):
		RespondBadGateway(c, "WRITE_FAILURE", message)
	case errors.Is(err, session.ErrSessionNotFound):
		RespondUnauthorized(c, "")
	case errors.Is(err, shared.ErrInvalidTransactionClass):
		RespondBadRequest(c, "Invalid transaction class")
	default:
		h.logger.Error("Unexpected transition error", "action", string(action), "error", err)
		RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
	}
}
