package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "volunteerhub_backend/internals/features/events/route"
	notifRoute "volunteerhub_backend/internals/features/notifications/route"
)

// SetupRoutes wires every feature group under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	BaseRoutes(app, db)

	api := app.Group("/api")
	eventRoute.VolunteerEventRoutes(api, db)
	eventRoute.OrganizationEventRoutes(api, db)
	eventRoute.AdminEventRoutes(api, db)
	notifRoute.NotificationRoutes(api, db)
}
