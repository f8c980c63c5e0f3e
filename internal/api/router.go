// Package api wires the Echo instance: middleware, renderer, routes, and
// the error handler.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/handler"
	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
	"github.com/velocityrent/rental-portal/internal/infrastructure/config"
	"github.com/velocityrent/rental-portal/internal/infrastructure/fleetapi"
	"github.com/velocityrent/rental-portal/web"
)

// Services groups everything the routes depend on.
type Services struct {
	Sessions  *service.SessionService
	Listings  *service.ListingService
	Details   *service.DetailService
	Rentals   *service.RentalService
	Inventory *service.InventoryService
	Uploads   *service.UploadService
	Dates     *service.DateContext
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, svc Services, fleet *fleetapi.Client, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := handler.NewRenderer(svc.Details.ResolveImage)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("rental_portal"))
	e.Use(middleware.Browse(cfg.Session.Secure))
	e.Use(middleware.Session(svc.Sessions))

	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))

	// --- Handlers ---
	listingHandler := handler.NewListingHandler(svc.Listings, svc.Dates, log)
	detailHandler := handler.NewDetailHandler(svc.Details, svc.Rentals, svc.Sessions, svc.Dates, log)
	authHandler := handler.NewAuthHandler(fleet, svc.Sessions, cfg.Session.TTL, cfg.Session.Secure, log)
	rentalHandler := handler.NewRentalHandler(svc.Rentals, svc.Sessions, cfg.Table.DefaultPageSize, log)
	inventoryHandler := handler.NewInventoryHandler(svc.Inventory, svc.Details, fleet, svc.Sessions, log)
	uploadHandler := handler.NewUploadHandler(svc.Uploads, svc.Inventory, svc.Sessions, log)

	// --- Public pages ---
	e.GET("/", listingHandler.Home)
	e.POST("/dates", listingHandler.SetDates)
	e.POST("/dates/clear", listingHandler.ClearDates)
	e.GET("/contact", listingHandler.Contact)
	e.GET("/cars/:carID", detailHandler.Show)
	e.POST("/cars/:carID/rent", detailHandler.Rent)

	// --- Auth ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)
	e.GET("/unauthorized", authHandler.Unauthorized)

	// --- Customer routes (any authenticated user) ---
	authed := e.Group("", middleware.Guard(""))
	authed.GET("/history", rentalHandler.History)
	authed.GET("/payment/:rentalID", rentalHandler.PaymentPage)
	authed.POST("/payment/:rentalID", rentalHandler.Pay)

	// --- Employee console ---
	employee := e.Group("/employee", middleware.Guard(domain.RoleEmployee))
	employee.GET("/manage-cars", inventoryHandler.Manage)
	employee.GET("/manage-cars/delete/:carID", inventoryHandler.DeleteConfirm)
	employee.POST("/manage-cars/delete/:carID", inventoryHandler.Delete)
	employee.GET("/manage-cars/images/:carID", inventoryHandler.Images)
	employee.POST("/cars", inventoryHandler.CreateCar)
	employee.GET("/upload", uploadHandler.Page)
	employee.POST("/assign-role", authHandler.AssignRole)
	employee.POST("/uploads", uploadHandler.Open)
	employee.GET("/uploads/:stagingID", uploadHandler.Dialog)
	employee.POST("/uploads/:stagingID/car", uploadHandler.SetCar)
	employee.POST("/uploads/:stagingID/files", uploadHandler.AddFiles)
	employee.POST("/uploads/:stagingID/files/:index/remove", uploadHandler.RemoveFile)
	employee.POST("/uploads/:stagingID/submit", uploadHandler.Submit)
	employee.POST("/uploads/:stagingID/close", uploadHandler.Close)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(rdb, fleet)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
