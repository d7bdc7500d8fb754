package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationUserModel is one recipient's copy of a notification.
// Only is_read / read_at ever mutate.
type NotificationUserModel struct {
	NotificationUserID             uuid.UUID  `gorm:"column:notification_user_id;type:uuid;primaryKey" json:"notification_user_id"`
	NotificationUserNotificationID uuid.UUID  `gorm:"column:notification_user_notification_id;type:uuid;not null;uniqueIndex:ux_notification_users_pair" json:"notification_user_notification_id"`
	NotificationUserUserID         uuid.UUID  `gorm:"column:notification_user_user_id;type:uuid;not null;uniqueIndex:ux_notification_users_pair;index:idx_notification_users_user_id" json:"notification_user_user_id"`
	NotificationUserIsRead         bool       `gorm:"column:notification_user_is_read;not null;default:false" json:"notification_user_is_read"`
	NotificationUserReadAt         *time.Time `gorm:"column:notification_user_read_at" json:"notification_user_read_at,omitempty"`
	NotificationUserSentAt         time.Time  `gorm:"column:notification_user_sent_at;autoCreateTime" json:"notification_user_sent_at"`
}

func (NotificationUserModel) TableName() string {
	return "notification_users"
}

func (nu *NotificationUserModel) BeforeCreate(tx *gorm.DB) error {
	if nu.NotificationUserID == uuid.Nil {
		nu.NotificationUserID = uuid.New()
	}
	return nil
}
