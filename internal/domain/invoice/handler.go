package invoice

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinicops/internal/platform/auth"
	"github.com/clinicops/clinicops/internal/tenant"
	"github.com/clinicops/clinicops/pkg/pagination"
)

type ClinicResolver interface {
	Resolve(ctx context.Context, principal string) (*tenant.Clinic, error)
}

type Handler struct {
	svc     *Service
	tenants ClinicResolver
}

func NewHandler(svc *Service, tenants ClinicResolver) *Handler {
	return &Handler{svc: svc, tenants: tenants}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/:id", h.GetInvoice)
	api.POST("/invoices", h.CreateInvoice)
	api.PUT("/invoices/:id", h.UpdateInvoice)
	api.DELETE("/invoices/:id", h.DeleteInvoice)
}

func (h *Handler) clinic(c echo.Context) (*tenant.Clinic, error) {
	principal := auth.PrincipalFromContext(c.Request().Context())
	clinic, err := h.tenants.Resolve(c.Request().Context(), principal)
	if errors.Is(err, tenant.ErrNotAuthenticated) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	if errors.Is(err, tenant.ErrTenantNotFound) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "no clinic membership")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "tenant resolution failed")
	}
	return clinic, nil
}

func (h *Handler) CreateInvoice(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv.TenantID = clinic.TenantID
	if err := h.svc.CreateInvoice(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetInvoice(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := h.svc.GetInvoice(c.Request().Context(), clinic.TenantID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) ListInvoices(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListInvoices(c.Request().Context(), clinic.TenantID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateInvoice(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	inv.ID = id
	inv.TenantID = clinic.TenantID
	if err := h.svc.UpdateInvoice(c.Request().Context(), &inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteInvoice(c.Request().Context(), clinic.TenantID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
