package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeEvent  = "EVENT"
	NotificationTypeSystem = "SYSTEM"
)

// Notification categories for scheduler-driven sends. The (event,
// category) pair is the dedup guard that keeps a poll loop from
// re-sending the same "starting soon" notice every tick.
const (
	NotificationCategoryUpcoming = "upcoming"
	NotificationCategoryOngoing  = "ongoing"
)

// NotificationModel is immutable once created; read state lives on the
// per-recipient NotificationUserModel rows.
type NotificationModel struct {
	NotificationID       uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	NotificationTitle    string         `gorm:"column:notification_title;size:255;not null" json:"notification_title"`
	NotificationContent  string         `gorm:"column:notification_content;type:text;not null" json:"notification_content"`
	NotificationType     string         `gorm:"column:notification_type;type:varchar(20);not null" json:"notification_type"`
	NotificationCategory string         `gorm:"column:notification_category;type:varchar(30);index:idx_notifications_event_category" json:"notification_category,omitempty"`
	NotificationEventID  *uuid.UUID     `gorm:"column:notification_event_id;type:uuid;index:idx_notifications_event_category" json:"notification_event_id,omitempty"`
	NotificationTags     pq.StringArray `gorm:"column:notification_tags;type:text[]" json:"notification_tags,omitempty"`
	NotificationData     datatypes.JSON `gorm:"column:notification_data" json:"notification_data,omitempty"`
	NotificationCreatedAt time.Time     `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
