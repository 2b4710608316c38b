package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ntandostore/core/internal/infrastructure/logger"
	"github.com/ntandostore/core/internal/ports"
)

// CatalogHandler serves services, domains, settings and contacts
type CatalogHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService ports.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListServices godoc
// @Summary List services
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /services [get]
func (h *CatalogHandler) ListServices(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("", nil, echo.Map{
		"services": h.catalogService.ListServices(c.Request().Context()),
	}))
}

// CreateService godoc
// @Summary Create a service
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.ServiceRequest true "Service data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/services [post]
func (h *CatalogHandler) CreateService(c echo.Context) error {
	var req ports.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	service, report, err := h.catalogService.CreateService(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err, "Failed to save service")
	}

	h.logger.LogAdminAction(adminFromContext(c), "create_service", map[string]interface{}{"service_id": service.ID})
	return c.JSON(http.StatusOK, ok("Service added successfully", report, echo.Map{"service": service}))
}

// UpdateService godoc
// @Summary Update a service
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param request body ports.ServiceRequest true "Service data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/services/{id} [put]
func (h *CatalogHandler) UpdateService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Service not found")
	}

	var req ports.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	service, report, err := h.catalogService.UpdateService(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err, "Failed to save service")
	}

	h.logger.LogAdminAction(adminFromContext(c), "update_service", map[string]interface{}{"service_id": id})
	return c.JSON(http.StatusOK, ok("Service updated successfully", report, echo.Map{"service": service}))
}

// DeleteService godoc
// @Summary Delete a service
// @Tags admin
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/services/{id} [delete]
func (h *CatalogHandler) DeleteService(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Service not found")
	}

	report, err := h.catalogService.DeleteService(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err, "Failed to delete service")
	}

	h.logger.LogAdminAction(adminFromContext(c), "delete_service", map[string]interface{}{"service_id": id})
	return c.JSON(http.StatusOK, ok("Service deleted successfully", report, nil))
}

// ListDomains godoc
// @Summary List domains
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /domains [get]
func (h *CatalogHandler) ListDomains(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("", nil, echo.Map{
		"domains": h.catalogService.ListDomains(c.Request().Context()),
	}))
}

// CreateDomain godoc
// @Summary Create a domain listing
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.DomainRequest true "Domain data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/domains [post]
func (h *CatalogHandler) CreateDomain(c echo.Context) error {
	var req ports.DomainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	domain, report, err := h.catalogService.CreateDomain(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err, "Failed to save domain")
	}

	h.logger.LogAdminAction(adminFromContext(c), "create_domain", map[string]interface{}{"domain": domain.Name})
	return c.JSON(http.StatusOK, ok("Domain added successfully", report, echo.Map{"domain": domain}))
}

// UpdateDomain godoc
// @Summary Update a domain listing
// @Tags admin
// @Accept json
// @Produce json
// @Param index path int true "Domain position"
// @Param request body ports.DomainRequest true "Domain data"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/domains/{index} [put]
func (h *CatalogHandler) UpdateDomain(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Domain not found")
	}

	var req ports.DomainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	domain, report, err := h.catalogService.UpdateDomain(c.Request().Context(), index, req)
	if err != nil {
		return toHTTPError(err, "Failed to save domain")
	}

	h.logger.LogAdminAction(adminFromContext(c), "update_domain", map[string]interface{}{"index": index})
	return c.JSON(http.StatusOK, ok("Domain updated successfully", report, echo.Map{"domain": domain}))
}

// DeleteDomain godoc
// @Summary Delete a domain listing
// @Tags admin
// @Produce json
// @Param index path int true "Domain position"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/domains/{index} [delete]
func (h *CatalogHandler) DeleteDomain(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Domain not found")
	}

	report, err := h.catalogService.DeleteDomain(c.Request().Context(), index)
	if err != nil {
		return toHTTPError(err, "Failed to delete domain")
	}

	h.logger.LogAdminAction(adminFromContext(c), "delete_domain", map[string]interface{}{"index": index})
	return c.JSON(http.StatusOK, ok("Domain deleted successfully", report, nil))
}

// GetSettings godoc
// @Summary Get site settings
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /settings [get]
func (h *CatalogHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("", nil, echo.Map{
		"settings": h.catalogService.GetSettings(c.Request().Context()),
	}))
}

// UpdateSettings godoc
// @Summary Update site settings
// @Description Only the supplied keys change
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.UpdateSettingsRequest true "Settings"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/settings [put]
func (h *CatalogHandler) UpdateSettings(c echo.Context) error {
	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	settings, report, err := h.catalogService.UpdateSettings(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err, "Failed to save settings")
	}

	h.logger.LogAdminAction(adminFromContext(c), "update_settings", nil)
	return c.JSON(http.StatusOK, ok("Settings updated successfully", report, echo.Map{"settings": settings}))
}

// ListContacts godoc
// @Summary List contact submissions
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/contacts [get]
func (h *CatalogHandler) ListContacts(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("", nil, echo.Map{
		"contacts": h.catalogService.ListContacts(c.Request().Context()),
	}))
}

// SubmitContact godoc
// @Summary Submit the contact form
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body ports.ContactRequest true "Contact form"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /contact [post]
func (h *CatalogHandler) SubmitContact(c echo.Context) error {
	var req ports.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Warnings are for the admin; the visitor only needs to know it arrived.
	if _, _, err := h.catalogService.SubmitContact(c.Request().Context(), req); err != nil {
		return toHTTPError(err, "Failed to send message")
	}

	return c.JSON(http.StatusOK, ok("Thank you for contacting us! We will get back to you within 24 hours.", nil, nil))
}

// Dashboard godoc
// @Summary Admin dashboard summary
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *CatalogHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("", nil, echo.Map{
		"data": h.catalogService.Dashboard(c.Request().Context()),
	}))
}
