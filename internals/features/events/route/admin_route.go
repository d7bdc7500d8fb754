package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/features/events/controller"
	notifController "volunteerhub_backend/internals/features/notifications/controller"
	"volunteerhub_backend/internals/middlewares/auth"
)

// AdminEventRoutes mounts the moderation surface: list, approve, cancel,
// statistics, plus the manual notify-volunteers send.
func AdminEventRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAdminEventController(db)
	notifCtl := notifController.NewNotificationController(db)

	events := api.Group("/admin/events",
		auth.AuthMiddleware(db),
		auth.OnlyRolesSlice(constants.RoleErrorAdmin("event moderation"), constants.AdminOnly))

	events.Get("/", ctl.ListEvents)
	events.Get("/statistics", ctl.Statistics)
	events.Patch("/:event_id/approve", ctl.ApproveEvent)
	events.Patch("/:event_id/cancel", ctl.CancelEvent)
	events.Post("/:event_id/notify", notifCtl.NotifyEventVolunteers)
}
