package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/constants"
	"volunteerhub_backend/internals/features/events/dto"
	"volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/events/service"
	notifService "volunteerhub_backend/internals/features/notifications/service"
	userModel "volunteerhub_backend/internals/features/users/model"
	helper "volunteerhub_backend/internals/helpers"
)

// OrganizationEventController serves the organizer surface: create and
// maintain events, inspect participants and stats. Every operation is
// scoped to the caller's organization, resolved through participations.
type OrganizationEventController struct {
	DB        *gorm.DB
	Lifecycle *service.LifecycleService
	Notifier  *notifService.NotificationService
	validate  *validator.Validate
}

func NewOrganizationEventController(db *gorm.DB) *OrganizationEventController {
	return &OrganizationEventController{
		DB:        db,
		Lifecycle: service.NewLifecycleService(db),
		Notifier:  notifService.NewNotificationService(db),
		validate:  validator.New(),
	}
}

// resolveOrgID maps the caller onto an organization. Admins may act on
// any org by passing ?organization_id=; everyone else must have a
// participation row.
func (ctl *OrganizationEventController) resolveOrgID(c *fiber.Ctx) (uuid.UUID, error) {
	role := helper.GetRoleFromLocals(c)
	if role == constants.RoleAdmin || role == constants.RoleSuperAdmin {
		if raw := c.Query("organization_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid organization_id")
			}
			return id, nil
		}
	}

	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return uuid.Nil, err
	}
	var part userModel.ParticipationModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("participation_user_id = ?", userID).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "You are not a member of any organization")
		}
		return uuid.Nil, err
	}
	return part.ParticipationOrganizationID, nil
}

// findOwnedEvent loads an event and checks it belongs to the org.
func (ctl *OrganizationEventController) findOwnedEvent(c *fiber.Ctx, orgID uuid.UUID) (*model.EventModel, error) {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid event_id")
	}
	var ev model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return nil, err
	}
	if ev.EventOrganizationID != orgID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Event belongs to another organization")
	}
	return &ev, nil
}

// GetMyEvents
// GET /api/organization/events
func (ctl *OrganizationEventController) GetMyEvents(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.EventModel{}).
		Where("event_organization_id = ?", orgID)
	if status := c.Query("status"); status != "" {
		q = q.Where("event_status = ?", status)
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

// CreateEvent
// POST /api/organization/events
// New events always start UPCOMING and unapproved; active admins get a
// pending-approval notification as a side effect.
func (ctl *OrganizationEventController) CreateEvent(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	if req.EventEndDate != nil && !req.EventEndDate.After(req.EventStartDate) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "event_end_date must be after event_start_date")
	}

	ev := req.ToModel(orgID)
	if err := ctl.DB.WithContext(c.Context()).Create(ev).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create event")
	}

	go func(ev model.EventModel) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := ctl.Notifier.NotifyPendingEvent(ctx, &ev); err != nil {
			log.Printf("[ERROR] pending-approval notification for event %s: %v", ev.EventID, err)
		}
	}(*ev)

	return helper.JsonCreated(c, "Event created successfully", dto.ToEventResponse(ev))
}

// UpdateEvent
// PUT /api/organization/events/:event_id
func (ctl *OrganizationEventController) UpdateEvent(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}
	ev, err := ctl.findOwnedEvent(c, orgID)
	if err != nil {
		return jsonFiberError(c, err)
	}
	if ev.EventStatus == model.EventStatusCanceled || ev.EventStatus == model.EventStatusFinished {
		return helper.JsonError(c, fiber.StatusBadRequest, "Cannot update a finished or canceled event")
	}

	var req dto.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	req.ApplyTo(ev)
	if ev.EventEndDate != nil && !ev.EventEndDate.After(ev.EventStartDate) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "event_end_date must be after event_start_date")
	}
	if err := ctl.DB.WithContext(c.Context()).Save(ev).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update event")
	}

	return helper.JsonUpdated(c, "Event updated successfully", dto.ToEventResponse(ev))
}

// CancelEvent
// PATCH /api/organization/events/:event_id/cancel
func (ctl *OrganizationEventController) CancelEvent(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}
	ev, err := ctl.findOwnedEvent(c, orgID)
	if err != nil {
		return jsonFiberError(c, err)
	}

	canceled, err := ctl.Lifecycle.Cancel(c.Context(), ev.EventID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel event")
	}

	return helper.JsonUpdated(c, "Event canceled successfully", dto.ToEventResponse(canceled))
}

// DeleteEvent
// DELETE /api/organization/events/:event_id
// Removes the event and its join rows in one transaction.
func (ctl *OrganizationEventController) DeleteEvent(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}
	ev, err := ctl.findOwnedEvent(c, orgID)
	if err != nil {
		return jsonFiberError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_join_event_id = ?", ev.EventID).
			Delete(&model.EventJoinModel{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", ev.EventID).
			Delete(&model.EventModel{}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete event")
	}

	return helper.JsonDeleted(c, "Event deleted successfully", fiber.Map{
		"event_id": ev.EventID,
	})
}

// GetParticipants
// GET /api/organization/events/:event_id/participants
func (ctl *OrganizationEventController) GetParticipants(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}
	ev, err := ctl.findOwnedEvent(c, orgID)
	if err != nil {
		return jsonFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 50, 200)

	base := ctl.DB.WithContext(c.Context()).Model(&model.EventJoinModel{}).
		Where("event_join_event_id = ?", ev.EventID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count participants")
	}

	var rows []dto.ParticipantResponse
	if err := ctl.DB.WithContext(c.Context()).Model(&model.EventJoinModel{}).
		Select("users.id AS user_id, users.full_name, users.email, event_joins.event_join_joined_at AS registered_at").
		Joins("JOIN users ON users.id = event_joins.event_join_user_id").
		Where("event_joins.event_join_event_id = ?", ev.EventID).
		Order("event_joins.event_join_joined_at ASC").
		Limit(p.Limit).Offset(p.Offset).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch participants")
	}

	return helper.JsonList(c, "Participants fetched successfully", rows,
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GetStats
// GET /api/organization/events/stats
func (ctl *OrganizationEventController) GetStats(c *fiber.Ctx) error {
	orgID, err := ctl.resolveOrgID(c)
	if err != nil {
		return jsonFiberError(c, err)
	}

	var stats dto.EventStatsResponse
	base := func() *gorm.DB {
		return ctl.DB.WithContext(c.Context()).Model(&model.EventModel{}).
			Where("event_organization_id = ?", orgID)
	}

	type countQuery struct {
		dest *int64
		cond []any
	}
	counts := []countQuery{
		{&stats.TotalEvents, nil},
		{&stats.UpcomingEvents, []any{"event_status = ?", model.EventStatusUpcoming}},
		{&stats.OngoingEvents, []any{"event_status = ?", model.EventStatusOngoing}},
		{&stats.FinishedEvents, []any{"event_status = ?", model.EventStatusFinished}},
		{&stats.CanceledEvents, []any{"event_status = ?", model.EventStatusCanceled}},
		{&stats.PendingApproval, []any{"event_is_approved = ?", false}},
	}
	for _, cq := range counts {
		q := base()
		if cq.cond != nil {
			q = q.Where(cq.cond[0], cq.cond[1:]...)
		}
		if err := q.Count(cq.dest).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
		}
	}

	var participants struct{ Total int64 }
	if err := base().Select("COALESCE(SUM(event_current_participants), 0) AS total").
		Scan(&participants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
	}
	stats.TotalParticipants = participants.Total

	return helper.JsonOK(c, "Stats fetched successfully", stats)
}

// jsonFiberError renders *fiber.Error with its own status, anything
// else as 500.
func jsonFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
}
