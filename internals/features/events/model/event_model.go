package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event status values. CANCELED is a terminal override: the scheduler
// never moves an event out of it.
const (
	EventStatusUpcoming = "UPCOMING"
	EventStatusOngoing  = "ONGOING"
	EventStatusFinished = "FINISHED"
	EventStatusCanceled = "CANCELED"
)

type EventModel struct {
	EventID          uuid.UUID  `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventTitle       string     `gorm:"column:event_title;size:255;not null" json:"event_title"`
	EventDescription string     `gorm:"column:event_description;type:text" json:"event_description"`
	EventAddress     string     `gorm:"column:event_address;size:255" json:"event_address"`
	EventCommuneID   *uuid.UUID `gorm:"column:event_commune_id;type:uuid" json:"event_commune_id,omitempty"`

	EventStartDate time.Time  `gorm:"column:event_start_date;not null;index" json:"event_start_date"`
	EventEndDate   *time.Time `gorm:"column:event_end_date" json:"event_end_date,omitempty"`

	EventStatus     string `gorm:"column:event_status;type:varchar(20);not null;default:'UPCOMING';index" json:"event_status"`
	EventIsApproved bool   `gorm:"column:event_is_approved;not null;default:false;index" json:"event_is_approved"`

	// 0 means unlimited. The participant counter is only ever touched
	// through guarded UPDATEs inside the registration transaction.
	EventMaxVolunteers       int `gorm:"column:event_max_volunteers;not null;default:0" json:"event_max_volunteers"`
	EventCurrentParticipants int `gorm:"column:event_current_participants;not null;default:0" json:"event_current_participants"`

	EventOrganizationID uuid.UUID `gorm:"column:event_organization_id;type:uuid;not null;index:idx_events_organization_id" json:"event_organization_id"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}

// IsOpenForRegistration gates the volunteer registration path: approval
// is orthogonal to status, both must hold.
func (e *EventModel) IsOpenForRegistration() bool {
	return e.EventStatus == EventStatusUpcoming && e.EventIsApproved
}

// IsFull reports whether the capacity is exhausted (never true for
// unlimited events).
func (e *EventModel) IsFull() bool {
	return e.EventMaxVolunteers > 0 && e.EventCurrentParticipants >= e.EventMaxVolunteers
}
