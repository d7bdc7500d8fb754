package dto

import (
	"time"

	"github.com/google/uuid"

	"volunteerhub_backend/internals/features/events/model"
)

/* ===============================
   Requests
=================================*/

type CreateEventRequest struct {
	EventTitle         string     `json:"event_title" validate:"required,min=3,max=255"`
	EventDescription   string     `json:"event_description" validate:"omitempty"`
	EventAddress       string     `json:"event_address" validate:"omitempty,max=255"`
	EventCommuneID     *uuid.UUID `json:"event_commune_id" validate:"omitempty"`
	EventStartDate     time.Time  `json:"event_start_date" validate:"required"`
	EventEndDate       *time.Time `json:"event_end_date" validate:"omitempty"`
	EventMaxVolunteers int        `json:"event_max_volunteers" validate:"omitempty,min=0"`
}

func (r *CreateEventRequest) ToModel(orgID uuid.UUID) *model.EventModel {
	return &model.EventModel{
		EventTitle:          r.EventTitle,
		EventDescription:    r.EventDescription,
		EventAddress:        r.EventAddress,
		EventCommuneID:      r.EventCommuneID,
		EventStartDate:      r.EventStartDate,
		EventEndDate:        r.EventEndDate,
		EventStatus:         model.EventStatusUpcoming,
		EventMaxVolunteers:  r.EventMaxVolunteers,
		EventOrganizationID: orgID,
	}
}

// UpdateEventRequest patches only the fields present in the payload.
type UpdateEventRequest struct {
	EventTitle         *string    `json:"event_title" validate:"omitempty,min=3,max=255"`
	EventDescription   *string    `json:"event_description" validate:"omitempty"`
	EventAddress       *string    `json:"event_address" validate:"omitempty,max=255"`
	EventCommuneID     *uuid.UUID `json:"event_commune_id" validate:"omitempty"`
	EventStartDate     *time.Time `json:"event_start_date" validate:"omitempty"`
	EventEndDate       *time.Time `json:"event_end_date" validate:"omitempty"`
	EventMaxVolunteers *int       `json:"event_max_volunteers" validate:"omitempty,min=0"`
}

func (r *UpdateEventRequest) ApplyTo(ev *model.EventModel) {
	if r.EventTitle != nil {
		ev.EventTitle = *r.EventTitle
	}
	if r.EventDescription != nil {
		ev.EventDescription = *r.EventDescription
	}
	if r.EventAddress != nil {
		ev.EventAddress = *r.EventAddress
	}
	if r.EventCommuneID != nil {
		ev.EventCommuneID = r.EventCommuneID
	}
	if r.EventStartDate != nil {
		ev.EventStartDate = *r.EventStartDate
	}
	if r.EventEndDate != nil {
		ev.EventEndDate = r.EventEndDate
	}
	if r.EventMaxVolunteers != nil {
		ev.EventMaxVolunteers = *r.EventMaxVolunteers
	}
}

/* ===============================
   Responses
=================================*/

type EventResponse struct {
	EventID                  uuid.UUID  `json:"event_id"`
	EventTitle               string     `json:"event_title"`
	EventDescription         string     `json:"event_description"`
	EventAddress             string     `json:"event_address"`
	EventCommuneID           *uuid.UUID `json:"event_commune_id,omitempty"`
	EventStartDate           time.Time  `json:"event_start_date"`
	EventEndDate             *time.Time `json:"event_end_date,omitempty"`
	EventStatus              string     `json:"event_status"`
	EventIsApproved          bool       `json:"event_is_approved"`
	EventMaxVolunteers       int        `json:"event_max_volunteers"`
	EventCurrentParticipants int        `json:"event_current_participants"`
	EventOrganizationID      uuid.UUID  `json:"event_organization_id"`
	OrganizationName         string     `json:"organization_name,omitempty"`
	IsRegistered             bool       `json:"is_registered"`
	EventCreatedAt           time.Time  `json:"event_created_at"`
}

func ToEventResponse(ev *model.EventModel) *EventResponse {
	return &EventResponse{
		EventID:                  ev.EventID,
		EventTitle:               ev.EventTitle,
		EventDescription:         ev.EventDescription,
		EventAddress:             ev.EventAddress,
		EventCommuneID:           ev.EventCommuneID,
		EventStartDate:           ev.EventStartDate,
		EventEndDate:             ev.EventEndDate,
		EventStatus:              ev.EventStatus,
		EventIsApproved:          ev.EventIsApproved,
		EventMaxVolunteers:       ev.EventMaxVolunteers,
		EventCurrentParticipants: ev.EventCurrentParticipants,
		EventOrganizationID:      ev.EventOrganizationID,
		EventCreatedAt:           ev.EventCreatedAt,
	}
}

func ToEventResponses(evs []model.EventModel, registered map[uuid.UUID]bool) []EventResponse {
	out := make([]EventResponse, 0, len(evs))
	for i := range evs {
		resp := ToEventResponse(&evs[i])
		if registered != nil {
			resp.IsRegistered = registered[evs[i].EventID]
		}
		out = append(out, *resp)
	}
	return out
}

// ParticipantResponse is one row of an organizer's participant list.
type ParticipantResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventStatsResponse summarizes an organization's events.
type EventStatsResponse struct {
	TotalEvents       int64 `json:"total_events"`
	UpcomingEvents    int64 `json:"upcoming_events"`
	OngoingEvents     int64 `json:"ongoing_events"`
	FinishedEvents    int64 `json:"finished_events"`
	CanceledEvents    int64 `json:"canceled_events"`
	PendingApproval   int64 `json:"pending_approval"`
	TotalParticipants int64 `json:"total_participants"`
}
