package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/money"
	"tally/internal/pagination"
	"tally/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create and update payloads. Amount is
// a positive decimal string; direction comes from Type.
type TransactionRequest struct {
	AccountID   string `json:"account_id" binding:"required"`
	Type        string `json:"type" binding:"required,transaction_type"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
	Category    string `json:"category" binding:"required,max=100"`
	Date        string `json:"date"`
}

func (r *TransactionRequest) toDraft() (services.TransactionDraft, error) {
	amount, err := money.ParseAmount(r.Amount)
	if err != nil {
		return services.TransactionDraft{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount")
	}

	date := time.Now().UTC()
	if r.Date != "" {
		date, err = parseFlexibleTime(r.Date)
		if err != nil {
			return services.TransactionDraft{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
	}

	return services.TransactionDraft{
		AccountID:   r.AccountID,
		Type:        models.TransactionType(r.Type),
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        date,
	}, nil
}

// CreateTransaction records a new transaction and adjusts the account balance
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions returns the authenticated user's transactions, newest first
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if accountID := c.Query("account_id"); accountID != "" {
		resp, err := h.transactionService.GetAccountTransactions(userID, accountID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.transactionService.GetUserTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction returns a single transaction by ID
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction replaces a transaction's fields and reconciles balances
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, c.Param("id"), draft)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction and reverses its balance effect
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}
