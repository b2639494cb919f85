package handler

import (
	"net/http"

	"luminapos/internal/apierror"
	"luminapos/internal/service"

	"github.com/gin-gonic/gin"
)

// OrdersHandler exposes the pending web orders awaiting in-store settlement.
type OrdersHandler struct{ svc service.SettlementService }

func NewOrdersHandler(svc service.SettlementService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// ListPending godoc
// @Summary      List pending web orders
// @Description  Web orders arrive as pending transactions; settling one through
// @Description  checkout flips it to settled in place.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TransactionResponse
// @Router       /v1/orders/pending [get]
func (h *OrdersHandler) ListPending(c *gin.Context) {
	resp, err := h.svc.ListPendingOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list pending orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
