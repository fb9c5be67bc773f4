package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/api/handler"
	"github.com/tutorlink/chain-client/internal/api/middleware"
	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// Deps carries everything the router needs. Handlers receive interfaces so
// tests can swap in stubs.
type Deps struct {
	JWTSecret string

	Auth         ports.AuthService
	Prober       handler.Prober
	Views        handler.ViewSource
	Refresher    handler.Refresher
	Wallet       ports.WalletProvider
	Reader       ports.LedgerReader
	Registration ports.RegistrationService
	Booking      ports.BookingService
	Commands     ports.SessionCommands

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tutorlink"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	healthHandler := handler.NewHealthHandler(d.Prober)
	walletHandler := handler.NewWalletHandler(d.Views, d.Wallet)
	profileHandler := handler.NewProfileHandler(d.Views, d.Registration)
	tutorHandler := handler.NewTutorHandler(d.Reader)
	sessionHandler := handler.NewSessionHandler(d.Views, d.Commands, d.Refresher)
	bookingHandler := handler.NewBookingHandler(d.Booking)

	authMiddleware := middleware.Auth(d.JWTSecret)
	currentRole := func() domain.Role {
		view := d.Views.View()
		if view.Identity == nil {
			return domain.RoleUnregistered
		}
		return view.Identity.Role
	}
	tutorOnly := middleware.RequireRole(currentRole, domain.RoleTutor)
	studentOnly := middleware.RequireRole(currentRole, domain.RoleStudent)

	// --- Unauthenticated surface ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Live)           // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Ready)    // readiness – is the ledger reachable?
	e.GET("/metrics", echoprometheus.NewHandler()) // prometheus scrape endpoint

	// --- Operator routes ---
	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/wallet", walletHandler.Status)
	v1.GET("/profile", profileHandler.Get)
	v1.POST("/register/tutor", profileHandler.RegisterTutor)
	v1.POST("/register/student", profileHandler.RegisterStudent)

	v1.GET("/tutors/:address", tutorHandler.Get)

	v1.GET("/sessions", sessionHandler.List)
	v1.POST("/sessions/refresh", sessionHandler.Refresh)
	v1.POST("/sessions/:id/confirm", sessionHandler.Confirm, tutorOnly)
	v1.POST("/sessions/:id/start", sessionHandler.Start)
	v1.POST("/sessions/:id/complete", sessionHandler.Complete)
	v1.POST("/sessions/:id/cancel", sessionHandler.Cancel)

	v1.GET("/booking/draft", bookingHandler.GetDraft)
	v1.PUT("/booking/draft", bookingHandler.UpdateDraft)
	v1.POST("/booking/estimate", bookingHandler.Estimate)
	v1.POST("/booking", bookingHandler.Submit, studentOnly)

	return e
}
