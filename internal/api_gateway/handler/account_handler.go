package handler

import (
	"errors"
	"log/slog"

	"github.com/agent-dashboard/internal/api_gateway/middleware"
	"github.com/agent-dashboard/internal/api_gateway/service"
	"github.com/agent-dashboard/internal/domain/account"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles HTTP requests for login, the session and its notices
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Login opens a session for active accounts whose credentials match exactly
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Username and password are required")
		return
	}

	snap, err := h.accountService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var inactive account.ErrAccountInactive
		switch {
		case errors.Is(err, account.ErrEmptyCredentials):
			RespondBadRequest(c, "Username and password are required")
		case errors.Is(err, account.ErrInvalidCredentials):
			RespondUnauthorized(c, account.MessageInvalidCredentials)
		case errors.As(err, &inactive):
			RespondForbidden(c, inactive.Notice)
		default:
			RespondBadGateway(c, "READ_FAILURE", account.MessageConnectionError)
		}
		return
	}

	// Bind the new session so the response carries its notice
	c.Set(middleware.SessionKey, snap)
	RespondCreated(c, LoginResponse{
		Token:   snap.Token,
		Account: mapAccountToResponse(snap.Account),
	})
}

// Logout closes the session
func (h *AccountHandler) Logout(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	h.accountService.Logout(c.Request.Context(), snap.Token)
	RespondNoContent(c)
}

// Session returns the current session's account snapshot
func (h *AccountHandler) Session(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	RespondOK(c, mapSessionToResponse(snap))
}

// Maintenance returns the session's maintenance notice
func (h *AccountHandler) Maintenance(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	RespondOK(c, gin.H{
		"active": snap.Notice != nil,
		"notice": snap.Notice,
	})
}

// DismissMaintenance hides the notice until the session loads another page
func (h *AccountHandler) DismissMaintenance(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	h.accountService.DismissNotice(c.Request.Context(), snap.Token)
	RespondNoContent(c)
}

// SecurityPayment returns the viewer's pending security payment, if one is owed
func (h *AccountHandler) SecurityPayment(c *gin.Context) {
	snap, ok := middleware.GetSession(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	p, err := h.accountService.PendingSecurityPayment(c.Request.Context(), snap.Account.Username)
	if err != nil {
		h.logger.Error("Failed to load security payment", "username", snap.Account.Username, "error", err)
		RespondBadGateway(c, "READ_FAILURE", "Error loading security payment. Please try again.")
		return
	}
	RespondOK(c, gin.H{
		"pending": p != nil,
		"payment": p,
	})
}
