package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"volunteerhub_backend/internals/features/events/dto"
	"volunteerhub_backend/internals/features/events/model"
	"volunteerhub_backend/internals/features/events/service"
	notifService "volunteerhub_backend/internals/features/notifications/service"
	userModel "volunteerhub_backend/internals/features/users/model"
	helper "volunteerhub_backend/internals/helpers"
)

// VolunteerEventController serves the volunteer-facing surface: browse
// open events, register, unregister, list own registrations.
type VolunteerEventController struct {
	DB           *gorm.DB
	Registration *service.RegistrationService
	Notifier     *notifService.NotificationService
}

func NewVolunteerEventController(db *gorm.DB) *VolunteerEventController {
	return &VolunteerEventController{
		DB:           db,
		Registration: service.NewRegistrationService(db),
		Notifier:     notifService.NewNotificationService(db),
	}
}

// GetAvailableEvents
// GET /api/volunteer/events
// Approved UPCOMING events with free capacity, earliest start first,
// with the caller's is_registered flag when authenticated.
func (ctl *VolunteerEventController) GetAvailableEvents(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.EventModel{}).
		Where("event_status = ? AND event_is_approved = ?", model.EventStatusUpcoming, true).
		Where("event_max_volunteers = 0 OR event_current_participants < event_max_volunteers")
	if search := c.Query("search"); search != "" {
		q = q.Where("event_title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := q.Order("event_start_date ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	registered, err := ctl.registeredFlags(c, events)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve registrations")
	}

	return helper.JsonList(c, "Events fetched successfully",
		dto.ToEventResponses(events, registered),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GetEventDetail
// GET /api/volunteer/events/:event_id
func (ctl *VolunteerEventController) GetEventDetail(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	var ev model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch event")
	}

	resp := dto.ToEventResponse(&ev)
	if orgName, err := ctl.organizationName(c, ev.EventOrganizationID); err == nil {
		resp.OrganizationName = orgName
	}
	if userID, err := helper.GetUserIDFromLocals(c); err == nil {
		isReg, err := ctl.Registration.IsRegistered(c.Context(), userID, eventID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve registration")
		}
		resp.IsRegistered = isReg
	}

	return helper.JsonOK(c, "Event fetched successfully", resp)
}

// GetRegisteredEvents
// GET /api/volunteer/events/registered
func (ctl *VolunteerEventController) GetRegisteredEvents(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	p := helper.ResolvePaging(c, 20, 100)

	base := ctl.DB.WithContext(c.Context()).Model(&model.EventModel{}).
		Joins("JOIN event_joins ON event_joins.event_join_event_id = events.event_id").
		Where("event_joins.event_join_user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count events")
	}

	var events []model.EventModel
	if err := base.Order("events.event_start_date ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&events).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	registered := make(map[uuid.UUID]bool, len(events))
	for i := range events {
		registered[events[i].EventID] = true
	}

	return helper.JsonList(c, "Registered events fetched successfully",
		dto.ToEventResponses(events, registered),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// RegisterEvent
// POST /api/volunteer/events/:event_id/register
func (ctl *VolunteerEventController) RegisterEvent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	if err := ctl.Registration.Register(c.Context(), userID, eventID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotOpen):
			return helper.JsonError(c, fiber.StatusBadRequest, "Event is not open for registration")
		case errors.Is(err, service.ErrAlreadyRegistered):
			return helper.JsonError(c, fiber.StatusConflict, "You are already registered for this event")
		case errors.Is(err, service.ErrEventFull):
			return helper.JsonError(c, fiber.StatusConflict, "Event is full")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to register")
		}
	}

	var ev model.EventModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("event_id = ?", eventID).First(&ev).Error; err == nil {
		ctl.Notifier.NotifyRegistrationAsync(&ev)
	}

	return helper.JsonCreated(c, "Registered successfully", fiber.Map{
		"event_id": eventID,
		"user_id":  userID,
	})
}

// UnregisterEvent
// DELETE /api/volunteer/events/:event_id/register
func (ctl *VolunteerEventController) UnregisterEvent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	eventID, err := helper.ParseUUIDParam(c, "event_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event_id")
	}

	if err := ctl.Registration.Unregister(c.Context(), userID, eventID); err != nil {
		if errors.Is(err, service.ErrJoinNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "You are not registered for this event")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to unregister")
	}

	return helper.JsonDeleted(c, "Unregistered successfully", fiber.Map{
		"event_id": eventID,
	})
}

func (ctl *VolunteerEventController) registeredFlags(c *fiber.Ctx, events []model.EventModel) (map[uuid.UUID]bool, error) {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return nil, nil // anonymous caller, no flags
	}
	ids := make([]uuid.UUID, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].EventID)
	}
	return ctl.Registration.RegisteredEventIDs(c.Context(), userID, ids)
}

func (ctl *VolunteerEventController) organizationName(c *fiber.Ctx, orgID uuid.UUID) (string, error) {
	var org userModel.OrganizationModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("organization_id = ?", orgID).First(&org).Error; err != nil {
		return "", err
	}
	return org.OrganizationName, nil
}
