package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/controller"
	"volunteerhub_backend/internals/middlewares"
	"volunteerhub_backend/internals/middlewares/auth"
)

// VolunteerEventRoutes mounts the volunteer-facing event endpoints.
// Browsing works anonymously; registering requires a valid token.
func VolunteerEventRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewVolunteerEventController(db)

	events := api.Group("/volunteer/events")

	// Public browsing, with optional auth for the is_registered flag.
	events.Get("/", auth.OptionalAuthMiddleware(db), ctl.GetAvailableEvents)

	// Authenticated volunteer surface.
	events.Get("/registered", auth.AuthMiddleware(db), ctl.GetRegisteredEvents)
	events.Get("/:event_id", auth.OptionalAuthMiddleware(db), ctl.GetEventDetail)
	events.Post("/:event_id/register",
		auth.AuthMiddleware(db),
		middlewares.RegistrationRateLimiter(),
		ctl.RegisterEvent)
	events.Delete("/:event_id/register", auth.AuthMiddleware(db), ctl.UnregisterEvent)
}
