package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicops/clinicops/internal/platform/auth"
	ws "github.com/clinicops/clinicops/internal/platform/websocket"
	"github.com/clinicops/clinicops/internal/tenant"
)

type ClinicResolver interface {
	Resolve(ctx context.Context, principal string) (*tenant.Clinic, error)
}

type Handler struct {
	mgr     *Manager
	tenants ClinicResolver
	stream  *ws.Handler
}

func NewHandler(mgr *Manager, tenants ClinicResolver, stream *ws.Handler) *Handler {
	return &Handler{mgr: mgr, tenants: tenants, stream: stream}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetSnapshot)
	api.GET("/dashboard/stream", h.Stream)
}

// snapshotResponse pairs the latest snapshot with a loading flag. Snapshot
// is null only before the engine's first publication.
type snapshotResponse struct {
	Snapshot *MetricsSnapshot `json:"snapshot"`
	Loading  bool             `json:"loading"`
	Currency string           `json:"currency"`
	Clinic   string           `json:"clinic"`
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

// GetSnapshot returns the tenant's latest metrics snapshot, starting the
// engine on first request.
func (h *Handler) GetSnapshot(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	snap, loading := h.mgr.Publisher(clinic.TenantID).Latest()
	return c.JSON(http.StatusOK, snapshotResponse{
		Snapshot: snap,
		Loading:  loading,
		Currency: clinic.Currency,
		Clinic:   clinic.DisplayName,
	})
}

// Stream upgrades to a WebSocket that receives each published snapshot for
// the caller's clinic.
func (h *Handler) Stream(c echo.Context) error {
	clinic, err := h.clinic(c)
	if err != nil {
		return err
	}
	// make sure the engine is running before the first event is awaited
	h.mgr.Publisher(clinic.TenantID)
	return h.stream.HandleConnect(c, clinic.TenantID)
}
