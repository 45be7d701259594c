package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/service"
	"github.com/eaglebank/ledger-service/internal/validation"
)

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts(context.Context, cqrs.ListAccountsQuery) (models.Page[models.AccountSummary], error)
	GetAccountDetails(context.Context, cqrs.GetAccountQuery) (*models.AccountDetail, error)
}

type AccountHandler struct {
	queries AccountQuerier
}

func NewAccountHandler(queries AccountQuerier) *AccountHandler {
	return &AccountHandler{queries: queries}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{Page: page})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.queries.GetAccountDetails(c.Request.Context(), cqrs.GetAccountQuery{
		AccountID: c.Param("accountId"),
	})
	if err != nil {
		middleware.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// bindPage reads ?page=&size= and aborts the request when they are malformed.
func bindPage(c *gin.Context) (models.PageRequest, bool) {
	var page models.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, string(service.InvalidParameters), "Invalid paging parameters")
		return page, false
	}
	if fieldErrs := validation.Validate(page); fieldErrs != nil {
		middleware.RespondWithValidationError(c, fieldErrs)
		return page, false
	}
	return page, true
}
