package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/features/events/controller"
	"volunteerhub_backend/internals/middlewares/auth"
)

// OrganizationEventRoutes mounts the organizer surface. Everything here
// requires an ORG account (admins pass through for support work).
func OrganizationEventRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewOrganizationEventController(db)

	events := api.Group("/organization/events",
		auth.AuthMiddleware(db),
		auth.OnlyRolesSlice(constants.RoleErrorOrg("event management"), constants.OrgAndAbove))

	events.Get("/", ctl.GetMyEvents)
	events.Get("/stats", ctl.GetStats)
	events.Post("/", ctl.CreateEvent)
	events.Put("/:event_id", ctl.UpdateEvent)
	events.Patch("/:event_id/cancel", ctl.CancelEvent)
	events.Delete("/:event_id", ctl.DeleteEvent)
	events.Get("/:event_id/participants", ctl.GetParticipants)
}
