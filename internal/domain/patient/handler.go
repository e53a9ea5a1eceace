package patient

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

// ClinicResolver is the slice of the tenant resolver the handler needs.
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
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
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

func (h *Handler) CreatePatient(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.TenantID = clinic.TenantID
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), clinic.TenantID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), clinic.TenantID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	p.TenantID = clinic.TenantID
	if err := h.svc.UpdatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePatient(c.Request().Context(), clinic.TenantID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
