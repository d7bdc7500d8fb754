package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// NotifyVolunteersRequest is the manual admin send to an event's
// registrants.
type NotifyVolunteersRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=255"`
	Content string `json:"content" validate:"required"`
}

// BroadcastRequest goes to every active user.
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required,min=3,max=255"`
	Content string `json:"content" validate:"required"`
}

// NotificationResponse is one inbox row: the shared notification body
// joined with the caller's per-recipient read state.
type NotificationResponse struct {
	NotificationUserID uuid.UUID      `json:"notification_user_id"`
	NotificationID     uuid.UUID      `json:"notification_id"`
	Title              string         `json:"title"`
	Content            string         `json:"content"`
	Type               string         `json:"type"`
	EventID            *uuid.UUID     `json:"event_id,omitempty"`
	Tags               pq.StringArray `json:"tags,omitempty"`
	Data               datatypes.JSON `json:"data,omitempty"`
	IsRead             bool           `json:"is_read"`
	ReadAt             *time.Time     `json:"read_at,omitempty"`
	SentAt             time.Time      `json:"sent_at"`
}
