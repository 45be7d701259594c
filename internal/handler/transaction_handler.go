package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/service"
)

const transactionAddedMessage = "Transaction has been added successfully"

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	AddTransaction(context.Context, cqrs.AddTransactionCommand) (string, error)
	UpdateTransaction(context.Context, cqrs.UpdateTransactionCommand) error
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	ListByAccount(context.Context, cqrs.ListTransactionsQuery) (models.Page[models.TransactionSummary], error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

// ListTransactions answers 204 when the account has no transactions on the page.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	transactions, err := h.queries.ListByAccount(c.Request.Context(), cqrs.ListTransactionsQuery{
		AccountID: c.Param("accountId"),
		Page:      page,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	if transactions.IsEmpty() {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	fields, ok := bindFields(c, &req, &req.TransactionFields)
	if !ok {
		return
	}

	id, err := h.commands.AddTransaction(c.Request.Context(), cqrs.AddTransactionCommand{
		AccountID: c.Param("accountId"),
		Fields:    fields,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+id)
	c.JSON(http.StatusCreated, models.SuccessResponse{Message: transactionAddedMessage})
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req models.UpdateTransactionRequest
	fields, ok := bindFields(c, &req, &req.TransactionFields)
	if !ok {
		return
	}

	err := h.commands.UpdateTransaction(c.Request.Context(), cqrs.UpdateTransactionCommand{
		AccountID:     c.Param("accountId"),
		TransactionID: c.Param("transactionId"),
		Fields:        fields,
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{
		AccountID:     c.Param("accountId"),
		TransactionID: c.Param("transactionId"),
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindFields decodes the JSON body into req. An empty body yields nil fields
// so the service decides, in its own order, how to reject it. A body that is
// not valid JSON is answered with 400 here.
func bindFields(c *gin.Context, req any, fields *models.TransactionFields) (*models.TransactionFields, bool) {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		return nil, true
	}
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, string(service.InvalidParameters), "Invalid request body")
		return nil, false
	}
	return fields, true
}
