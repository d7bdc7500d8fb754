package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/features/notifications/controller"
	"volunteerhub_backend/internals/middlewares/auth"
)

// NotificationRoutes mounts the per-user inbox and the admin broadcast.
func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewNotificationController(db)

	inbox := api.Group("/notifications", auth.AuthMiddleware(db))
	inbox.Get("/", ctl.GetMyNotifications)
	inbox.Get("/unread-count", ctl.CountUnread)
	inbox.Patch("/read-all", ctl.MarkAllRead)
	inbox.Patch("/:notification_user_id/read", ctl.MarkRead)
	inbox.Delete("/:notification_user_id", ctl.DeleteNotification)

	admin := api.Group("/admin/notifications",
		auth.AuthMiddleware(db),
		auth.OnlyRolesSlice(constants.RoleErrorAdmin("notification broadcast"), constants.AdminOnly))
	admin.Post("/broadcast", ctl.Broadcast)
}
