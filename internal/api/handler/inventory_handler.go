package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

const msgDeleteFailed = "Something went wrong when trying to delete data"

type newCarRequest struct {
	Name         string  `form:"name" validate:"required"`
	Model        string  `form:"model" validate:"required"`
	Year         int     `form:"year" validate:"required,gt=1900"`
	LicensePlate string  `form:"licensePlate" validate:"required"`
	Seats        int     `form:"seats" validate:"required,gt=0"`
	Transmission string  `form:"transmission" validate:"required,oneof=Automatic Manual"`
	PricePerDay  float64 `form:"pricePerDay" validate:"required,gt=0"`
}

// InventoryHandler serves the employee car table: paging, car creation, the
// two-step delete, and the image gallery.
type InventoryHandler struct {
	inventory *service.InventoryService
	details   *service.DetailService
	admin     ports.CarAdmin
	sessions  *service.SessionService
	log       zerolog.Logger
}

func NewInventoryHandler(inventory *service.InventoryService, details *service.DetailService, admin ports.CarAdmin, sessions *service.SessionService, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		details:   details,
		admin:     admin,
		sessions:  sessions,
		log:       log,
	}
}

// Manage renders the inventory table. Query params: page, pageSize.
func (h *InventoryHandler) Manage(c echo.Context) error {
	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	page := queryInt(c, "page", 1)
	pageSize := 0
	if raw := c.QueryParam("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			pageSize = n
		}
	}

	snap := h.inventory.View(c.Request().Context(), token, middleware.BrowseIDFrom(c), page, pageSize)
	return h.renderManage(c, snap)
}

func (h *InventoryHandler) renderManage(c echo.Context, snap service.InventorySnapshot) error {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(snap.PageSize))

	return c.Render(http.StatusOK, "manage_cars.html", viewData(c, "Manage Cars", map[string]any{
		"Err":             snap.Err,
		"Page":            snap.Page,
		"PageSize":        snap.PageSize,
		"PageSizeOptions": domain.PageSizeOptions,
		"Pager": pagerData{
			Window:      snap.Window,
			CurrentPage: snap.Page.CurrentPage,
			TotalPages:  snap.Page.TotalPages,
			BaseURL:     pagerURL("/employee/manage-cars", params),
		},
	}))
}

// DeleteConfirm renders the "are you sure" page before a delete.
func (h *InventoryHandler) DeleteConfirm(c echo.Context) error {
	carID := c.Param("carID")
	name := carID
	snap := h.inventory.Snapshot(middleware.BrowseIDFrom(c))
	for _, row := range snap.Page.Items {
		if row.CarID == carID {
			name = row.Name + " " + row.Model
			break
		}
	}
	return c.Render(http.StatusOK, "delete_confirm.html", viewData(c, "Delete Car", map[string]any{
		"CarID":   carID,
		"CarName": name,
	}))
}

// Delete removes the car. The table row disappears immediately; when the
// fleet API rejects the delete, the service has already refetched the page
// and the row is back.
func (h *InventoryHandler) Delete(c echo.Context) error {
	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	carID := c.Param("carID")
	if err := h.inventory.Delete(c.Request().Context(), token, middleware.BrowseIDFrom(c), carID); err != nil {
		flashError(c, userMsg(err, msgDeleteFailed))
	} else {
		flashSuccess(c, "Car deleted")
	}
	return c.Redirect(http.StatusFound, "/employee/manage-cars")
}

// Images renders a car's image gallery.
func (h *InventoryHandler) Images(c echo.Context) error {
	view, err := h.details.Detail(c.Request().Context(), c.Param("carID"), domain.DateRange{})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "images.html", viewData(c, view.Car.Name, map[string]any{
		"CarName": view.Car.Name,
		"Images":  view.Images,
	}))
}

// CreateCar registers a new vehicle with the fleet API.
func (h *InventoryHandler) CreateCar(c echo.Context) error {
	var req newCarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		flashError(c, err.Error())
		return c.Redirect(http.StatusFound, "/employee/upload")
	}

	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	car, err := h.admin.CreateCar(c.Request().Context(), token, domain.NewCar{
		Name:         req.Name,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		Seats:        req.Seats,
		Transmission: req.Transmission,
		PricePerDay:  req.PricePerDay,
	})
	if err != nil {
		flashError(c, userMsg(err, "Something went wrong when sending the data"))
		return c.Redirect(http.StatusFound, "/employee/upload")
	}

	h.log.Info().Str("car_id", car.CarID).Msg("car created")
	flashSuccess(c, car.Name+" added to the fleet")
	return c.Redirect(http.StatusFound, "/employee/manage-cars")
}
