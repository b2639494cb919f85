package handler

import (
	"net/http"

	"luminapos/internal/apierror"
	"luminapos/internal/dto"
	"luminapos/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get godoc
// @Summary      Get store settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SettingsResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not load settings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update store settings
// @Description  Tax rate changes apply to future settlements only; settled
// @Description  transactions keep their recorded amounts.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateSettingsRequest true "Settings"
// @Success      200 {object} dto.SettingsResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
