package v1

import (
	"net/http"

	"github.com/flexprice/ordertax/internal/api/dto"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/service"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type TaxConfigHandler struct {
	s      service.TaxConfigurationService
	logger *logger.Logger
}

func NewTaxConfigHandler(s service.TaxConfigurationService, logger *logger.Logger) *TaxConfigHandler {
	return &TaxConfigHandler{
		s:      s,
		logger: logger,
	}
}

// @Summary Create a tax configuration
// @Description Create a tax configuration. Only one active default may exist per service type.
// @Tags Tax Configurations
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param tax_configuration body dto.CreateTaxConfigurationRequest true "Tax configuration to create"
// @Success 201 {object} dto.TaxConfigurationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations [post]
func (h *TaxConfigHandler) Create(c *gin.Context) {
	var req dto.CreateTaxConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.s.Create(c.Request.Context(), c.Param("organization_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a tax configuration
// @Tags Tax Configurations
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Tax configuration ID"
// @Success 200 {object} dto.TaxConfigurationResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations/{id} [get]
func (h *TaxConfigHandler) Get(c *gin.Context) {
	resp, err := h.s.Get(c.Request.Context(), c.Param("organization_id"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a tax configuration
// @Description Update the fields present in the request
// @Tags Tax Configurations
// @Accept json
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Tax configuration ID"
// @Param tax_configuration body dto.UpdateTaxConfigurationRequest true "Fields to update"
// @Success 200 {object} dto.TaxConfigurationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations/{id} [put]
func (h *TaxConfigHandler) Update(c *gin.Context) {
	var req dto.UpdateTaxConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.s.Update(c.Request.Context(), c.Param("organization_id"), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a tax configuration
// @Tags Tax Configurations
// @Param organization_id path string true "Organization ID"
// @Param id path string true "Tax configuration ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations/{id} [delete]
func (h *TaxConfigHandler) Delete(c *gin.Context) {
	if err := h.s.Delete(c.Request.Context(), c.Param("organization_id"), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List tax configurations
// @Tags Tax Configurations
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param filter query types.TaxConfigurationFilter false "Filter"
// @Success 200 {object} dto.ListTaxConfigurationsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations [get]
func (h *TaxConfigHandler) List(c *gin.Context) {
	filter := types.NewTaxConfigurationFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.s.List(c.Request.Context(), c.Param("organization_id"), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview the applicable tax configuration
// @Description Show which configuration applies to a service type and its effect on a sample order of 100.00
// @Tags Tax Configurations
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param service_type query string false "Service type, ALL when omitted"
// @Success 200 {object} dto.PreviewTaxConfigurationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /organizations/{organization_id}/tax-configurations/preview [get]
func (h *TaxConfigHandler) Preview(c *gin.Context) {
	serviceType := lo.EmptyableToPtr(types.ServiceType(c.Query("service_type")))

	resp, err := h.s.Preview(c.Request.Context(), c.Param("organization_id"), serviceType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
