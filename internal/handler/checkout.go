package handler

import (
	"net/http"

	"luminapos/internal/apierror"
	"luminapos/internal/dto"
	"luminapos/internal/middleware"
	"luminapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct{ svc service.SettlementService }

func NewCheckoutHandler(svc service.SettlementService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Settle godoc
// @Summary      Settle a sale
// @Description  Computes totals, splits payments, persists the transaction and
// @Description  records the cash movement against the open shift. Stock sync is
// @Description  dispatched asynchronously and never blocks the settlement.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Sale detail"
// @Success      201 {object} dto.TransactionResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Settle(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Settle(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
