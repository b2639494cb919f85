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

type ShiftHandler struct{ svc service.ShiftService }

func NewShiftHandler(svc service.ShiftService) *ShiftHandler { return &ShiftHandler{svc: svc} }

// Open godoc
// @Summary      Open a cash shift
// @Description  Opens a new shift with the given opening float. Fails when a
// @Description  shift is already open.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenShiftRequest true "Opening float"
// @Success      201 {object} dto.ShiftReportResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/shifts/open [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Open(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordMovement godoc
// @Summary      Record a manual cash movement
// @Description  Adds a CASH_IN or CASH_OUT entry to the open shift's ledger.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.MovementRequest true "Movement"
// @Success      204
// @Failure      422 {object} apierror.APIError
// @Router       /v1/shifts/movements [post]
func (h *ShiftHandler) RecordMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RecordMovement(c.Request.Context(), req); err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Close godoc
// @Summary      Close the shift and reconcile
// @Description  Computes expected cash from the ledger, compares it against the
// @Description  counted amount and records the variance. Variance is reported,
// @Description  never corrected.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CloseShiftRequest true "Counted amount"
// @Success      200 {object} dto.ReconciliationResponse
// @Failure      422 {object} apierror.APIError
// @Router       /v1/shifts/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Current returns the currently open shift, or 404 when none is open.
func (h *ShiftHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("no open shift"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary      Shift report
// @Description  Returns the full ledger and totals for a shift, open or closed.
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Shift ID"
// @Success      200 {object} dto.ShiftReportResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/shifts/{id}/report [get]
func (h *ShiftHandler) Report(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
