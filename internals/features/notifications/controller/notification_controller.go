package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventModel "volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/notifications/dto"
	"volunteerhub_backend/internals/features/notifications/model"
	"volunteerhub_backend/internals/features/notifications/service"
	helper "volunteerhub_backend/internals/helpers"
)

// NotificationController serves the per-user inbox plus the admin send
// endpoints.
type NotificationController struct {
	DB       *gorm.DB
	Service  *service.NotificationService
	validate *validator.Validate
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{
		DB:       db,
		Service:  service.NewNotificationService(db),
		validate: validator.New(),
	}
}

/* ===============================
   Inbox (authenticated user)
=================================*/

// GetMyNotifications
// GET /api/notifications?unread=true
func (ctl *NotificationController) GetMyNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	p := helper.ResolvePaging(c, 20, 100)

	base := ctl.DB.WithContext(c.Context()).Model(&model.NotificationUserModel{}).
		Where("notification_user_user_id = ?", userID)
	if c.Query("unread") == "true" {
		base = base.Where("notification_user_is_read = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count notifications")
	}

	var rows []dto.NotificationResponse
	q := ctl.DB.WithContext(c.Context()).Model(&model.NotificationUserModel{}).
		Select(`notification_users.notification_user_id,
			notifications.notification_id,
			notifications.notification_title AS title,
			notifications.notification_content AS content,
			notifications.notification_type AS type,
			notifications.notification_event_id AS event_id,
			notifications.notification_tags AS tags,
			notifications.notification_data AS data,
			notification_users.notification_user_is_read AS is_read,
			notification_users.notification_user_read_at AS read_at,
			notification_users.notification_user_sent_at AS sent_at`).
		Joins("JOIN notifications ON notifications.notification_id = notification_users.notification_user_notification_id").
		Where("notification_users.notification_user_user_id = ?", userID)
	if c.Query("unread") == "true" {
		q = q.Where("notification_users.notification_user_is_read = ?", false)
	}
	if err := q.Order("notification_users.notification_user_sent_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch notifications")
	}

	return helper.JsonList(c, "Notifications fetched successfully", rows,
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// CountUnread
// GET /api/notifications/unread-count
func (ctl *NotificationController) CountUnread(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var count int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.NotificationUserModel{}).
		Where("notification_user_user_id = ? AND notification_user_is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count notifications")
	}

	return helper.JsonOK(c, "Unread count fetched successfully", fiber.Map{
		"unread_count": count,
	})
}

// MarkRead
// PATCH /api/notifications/:notification_user_id/read
// Only the owning user can flip their copy.
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	rowID, err := helper.ParseUUIDParam(c, "notification_user_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification_user_id")
	}

	now := time.Now()
	res := ctl.DB.WithContext(c.Context()).Model(&model.NotificationUserModel{}).
		Where("notification_user_id = ? AND notification_user_user_id = ?", rowID, userID).
		Updates(map[string]any{
			"notification_user_is_read": true,
			"notification_user_read_at": now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to mark as read")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notification not found")
	}

	return helper.JsonUpdated(c, "Notification marked as read", fiber.Map{
		"notification_user_id": rowID,
		"read_at":              now,
	})
}

// MarkAllRead
// PATCH /api/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	now := time.Now()
	res := ctl.DB.WithContext(c.Context()).Model(&model.NotificationUserModel{}).
		Where("notification_user_user_id = ? AND notification_user_is_read = ?", userID, false).
		Updates(map[string]any{
			"notification_user_is_read": true,
			"notification_user_read_at": now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to mark all as read")
	}

	return helper.JsonUpdated(c, "All notifications marked as read", fiber.Map{
		"updated": res.RowsAffected,
	})
}

// DeleteNotification
// DELETE /api/notifications/:notification_user_id
// Deletes only the caller's copy; the shared notification row stays.
func (ctl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	rowID, err := helper.ParseUUIDParam(c, "notification_user_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification_user_id")
	}

	res := ctl.DB.WithContext(c.Context()).
		Where("notification_user_id = ? AND notification_user_user_id = ?", rowID, userID).
		Delete(&model.NotificationUserModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete notification")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notification not found")
	}

	return helper.JsonDeleted(c, "Notification deleted successfully", fiber.Map{
		"notification_user_id": rowID,
	})
}

/* ===============================
   Admin sends
=================================*/

// NotifyEventVolunteers
// POST /api/admin/events/:event_id/notify
func (ctl *NotificationController) NotifyEventVolunteers(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	var req dto.NotifyVolunteersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var ev eventModel.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch event")
	}

	result, err := ctl.Service.NotifyEventVolunteers(c.Context(), &ev, req.Title, req.Content)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send notification")
	}

	return helper.JsonCreated(c, "Notification sent successfully", result)
}

// Broadcast
// POST /api/admin/notifications/broadcast
func (ctl *NotificationController) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	result, err := ctl.Service.Broadcast(c.Context(), req.Title, req.Content)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to broadcast")
	}

	return helper.JsonCreated(c, "Broadcast sent successfully", result)
}
