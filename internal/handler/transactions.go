package handler

import (
	"net/http"

	"luminapos/internal/apierror"
	"luminapos/internal/dto"
	"luminapos/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct{ svc service.SettlementService }

func NewTransactionsHandler(svc service.SettlementService) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// List godoc
// @Summary      List transactions
// @Description  Returns a paginated list filtered by date, status and origin.
// @Description  Defaults to today's settled transactions.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        date   query string false "YYYY-MM-DD (default today)"
// @Param        status query string false "settled | pending | all"
// @Param        origin query string false "pos | web"
// @Success      200 {object} dto.TransactionListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/transactions [get]
func (h *TransactionsHandler) List(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list transactions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
