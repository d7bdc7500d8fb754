package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/dto"
	"volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/events/service"
	notifService "volunteerhub_backend/internals/features/notifications/service"
	helper "volunteerhub_backend/internals/helpers"
)

// AdminEventController serves the moderation surface: list everything,
// approve, and platform-wide statistics.
type AdminEventController struct {
	DB        *gorm.DB
	Lifecycle *service.LifecycleService
	Notifier  *notifService.NotificationService
}

func NewAdminEventController(db *gorm.DB) *AdminEventController {
	return &AdminEventController{
		DB:        db,
		Lifecycle: service.NewLifecycleService(db),
		Notifier:  notifService.NewNotificationService(db),
	}
}

// ListEvents
// GET /api/admin/events?status=&approved=&search=
func (ctl *AdminEventController) ListEvents(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.EventModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("event_status = ?", status)
	}
	if approved := c.Query("approved"); approved != "" {
		q = q.Where("event_is_approved = ?", approved == "true")
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("event_title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.Order("event_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	return helper.JsonList(c, "Events fetched successfully",
		dto.ToEventResponses(events, nil),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// ApproveEvent
// PATCH /api/admin/events/:event_id/approve
// Approval succeeds or fails on its own; the broadcast to volunteers is
// best-effort in the background.
func (ctl *AdminEventController) ApproveEvent(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	ev, err := ctl.Lifecycle.Approve(c.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrAlreadyApproved):
			return helper.JsonError(c, fiber.StatusConflict, "Event is already approved")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to approve event")
		}
	}

	go func(ev model.EventModel) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := ctl.Notifier.NotifyApprovedEvent(ctx, &ev); err != nil {
			log.Printf("[ERROR] approval broadcast for event %s: %v", ev.EventID, err)
		}
	}(*ev)

	return helper.JsonUpdated(c, "Event approved successfully", dto.ToEventResponse(ev))
}

// CancelEvent
// PATCH /api/admin/events/:event_id/cancel
func (ctl *AdminEventController) CancelEvent(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	ev, err := ctl.Lifecycle.Cancel(c.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel event")
	}

	return helper.JsonUpdated(c, "Event canceled successfully", dto.ToEventResponse(ev))
}

// Statistics
// GET /api/admin/events/statistics
func (ctl *AdminEventController) Statistics(c *fiber.Ctx) error {
	var stats dto.EventStatsResponse
	base := func() *gorm.DB {
		return ctl.DB.WithContext(c.Context()).Model(&model.EventModel{})
	}

	if err := base().Count(&stats.TotalEvents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}
	statusCounts := map[string]*int64{
		model.EventStatusUpcoming: &stats.UpcomingEvents,
		model.EventStatusOngoing:  &stats.OngoingEvents,
		model.EventStatusFinished: &stats.FinishedEvents,
		model.EventStatusCanceled: &stats.CanceledEvents,
	}
	for status, dest := range statusCounts {
		if err := base().Where("event_status = ?", status).Count(dest).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute statistics")
		}
	}
	if err := base().Where("event_is_approved = ?", false).
		Count(&stats.PendingApproval).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}

	var participants struct{ Total int64 }
	if err := base().Select("COALESCE(SUM(event_current_participants), 0) AS total").
		Scan(&participants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}
	stats.TotalParticipants = participants.Total

	return helper.JsonOK(c, "Statistics fetched successfully", stats)
}
