package v1

import (
	"net/http"

	"github.com/flexprice/ordertax/internal/api/dto"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/service"
	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	service service.TaxService
	logger  *logger.Logger
}

func NewTaxHandler(service service.TaxService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Calculate order tax
// @Description Calculate subtotal, tax and total of a draft order. When no tax configuration applies the tax is deferred to checkout.
// @Tags Tax
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param request body dto.CalculateTaxRequest true "Draft order"
// @Success 200 {object} dto.CalculateTaxResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax/calculate [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	req.OrganizationID = c.Param("organization_id")

	resp, err := h.service.CalculateTax(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get cart totals
// @Description Get the latest totals calculated for a cart, including recalculations after configuration changes
// @Tags Tax
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param cart_id path string true "Cart ID"
// @Success 200 {object} dto.CalculateTaxResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax/carts/{cart_id} [get]
func (h *TaxHandler) GetCartTotals(c *gin.Context) {
	resp, err := h.service.GetCartTotals(c.Request.Context(), c.Param("organization_id"), c.Param("cart_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Release cart
// @Description Stop tracking a cart once its order is placed or abandoned
// @Tags Tax
// @Param organization_id path string true "Organization ID"
// @Param cart_id path string true "Cart ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax/carts/{cart_id} [delete]
func (h *TaxHandler) ReleaseCart(c *gin.Context) {
	if err := h.service.ReleaseCart(c.Request.Context(), c.Param("organization_id"), c.Param("cart_id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
