package inventory

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
	api.GET("/inventory", h.ListItems)
	api.GET("/inventory/:id", h.GetItem)
	api.POST("/inventory", h.CreateItem)
	api.PUT("/inventory/:id", h.UpdateItem)
	api.DELETE("/inventory/:id", h.DeleteItem)
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

func (h *Handler) CreateItem(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	var i Item
	if err := c.Bind(&i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	i.TenantID = clinic.TenantID
	if err := h.svc.CreateItem(c.Request().Context(), &i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, i)
}

func (h *Handler) GetItem(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	i, err := h.svc.GetItem(c.Request().Context(), clinic.TenantID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, i)
}

func (h *Handler) ListItems(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListItems(c.Request().Context(), clinic.TenantID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateItem(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var i Item
	if err := c.Bind(&i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	i.ID = id
	i.TenantID = clinic.TenantID
	if err := h.svc.UpdateItem(c.Request().Context(), &i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, i)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), clinic.TenantID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
