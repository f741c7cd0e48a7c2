package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/api/http/handlers"
	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Reservations   *handlers.ReservationsHandler
	Services       *handlers.ServicesHandler
	Messages       *handlers.MessagesHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.Middleware
	LoginLimiter   ratelimit.Limiter
	APILimiter     ratelimit.Limiter
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	loginLimit := RateLimitMiddleware(cfg.LoginLimiter, cfg.Logger)
	apiLimit := RateLimitMiddleware(cfg.APILimiter, cfg.Logger)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", loginLimit, cfg.Auth.Login)
	authGroup.Post("/2fa/verify", loginLimit, cfg.Auth.VerifyTwoFactor)

	authProtected := authGroup.Group("", apiLimit, cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)
	authProtected.Post("/2fa/setup", cfg.Auth.SetupTwoFactor)
	authProtected.Post("/2fa/enable", cfg.Auth.EnableTwoFactor)
	authProtected.Post("/2fa/disable", cfg.Auth.DisableTwoFactor)

	// Channel gateways authenticate out of band; the webhook only passes
	// through the shared API limiter.
	app.Post("/webhooks/messages", apiLimit, cfg.Messages.ReceiveInbound)

	api := app.Group("/api", apiLimit, cfg.AuthMiddleware.Handle)

	customers := api.Group("/customers")
	customers.Post("", auth.RequirePermission(auth.ResourceCustomers, auth.ActionWrite), cfg.Customers.CreateCustomer)
	customers.Get("", auth.RequirePermission(auth.ResourceCustomers, auth.ActionRead), cfg.Customers.ListCustomers)
	customers.Get("/:id", auth.RequirePermission(auth.ResourceCustomers, auth.ActionRead), cfg.Customers.GetCustomer)
	customers.Put("/:id", auth.RequirePermission(auth.ResourceCustomers, auth.ActionWrite), cfg.Customers.UpdateCustomer)
	customers.Delete("/:id", auth.RequirePermission(auth.ResourceCustomers, auth.ActionWrite), cfg.Customers.DeleteCustomer)

	reservations := api.Group("/reservations")
	reservations.Post("", auth.RequirePermission(auth.ResourceReservations, auth.ActionWrite), cfg.Reservations.CreateReservation)
	reservations.Get("", auth.RequirePermission(auth.ResourceReservations, auth.ActionRead), cfg.Reservations.ListReservations)
	reservations.Get("/:id", auth.RequirePermission(auth.ResourceReservations, auth.ActionRead), cfg.Reservations.GetReservation)
	reservations.Put("/:id", auth.RequirePermission(auth.ResourceReservations, auth.ActionWrite), cfg.Reservations.UpdateReservation)
	reservations.Patch("/:id/status", auth.RequirePermission(auth.ResourceReservations, auth.ActionWrite), cfg.Reservations.UpdateStatus)

	services := api.Group("/services")
	services.Post("", auth.RequirePermission(auth.ResourceServices, auth.ActionWrite), cfg.Services.CreateService)
	services.Get("", auth.RequirePermission(auth.ResourceServices, auth.ActionRead), cfg.Services.ListServices)
	services.Get("/:id", auth.RequirePermission(auth.ResourceServices, auth.ActionRead), cfg.Services.GetService)
	services.Put("/:id", auth.RequirePermission(auth.ResourceServices, auth.ActionWrite), cfg.Services.UpdateService)

	messages := api.Group("/messages")
	messages.Post("", auth.RequirePermission(auth.ResourceMessages, auth.ActionWrite), cfg.Messages.SendOutbound)
	messages.Get("", auth.RequirePermission(auth.ResourceMessages, auth.ActionRead), cfg.Messages.ListMessages)
	messages.Post("/:id/read", auth.RequirePermission(auth.ResourceMessages, auth.ActionWrite), cfg.Messages.MarkRead)

	staff := api.Group("/staff")
	staff.Post("", auth.RequirePermission(auth.ResourceStaff, auth.ActionWrite), cfg.Staff.CreateStaff)
	staff.Get("", auth.RequirePermission(auth.ResourceStaff, auth.ActionRead), cfg.Staff.ListStaff)
	staff.Get("/:id", auth.RequirePermission(auth.ResourceStaff, auth.ActionRead), cfg.Staff.GetStaff)
	staff.Put("/:id", auth.RequirePermission(auth.ResourceStaff, auth.ActionWrite), cfg.Staff.UpdateStaff)
}
