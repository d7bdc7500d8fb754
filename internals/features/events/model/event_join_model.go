package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventJoinModel is one volunteer's registration for one event. The
// composite unique index is what enforces "at most one join per
// (user, event)" even under concurrent requests.
type EventJoinModel struct {
	EventJoinID       uuid.UUID `gorm:"column:event_join_id;type:uuid;primaryKey" json:"event_join_id"`
	EventJoinUserID   uuid.UUID `gorm:"column:event_join_user_id;type:uuid;not null;uniqueIndex:ux_event_joins_user_event" json:"event_join_user_id"`
	EventJoinEventID  uuid.UUID `gorm:"column:event_join_event_id;type:uuid;not null;uniqueIndex:ux_event_joins_user_event;index:idx_event_joins_event_id" json:"event_join_event_id"`
	EventJoinJoinedAt time.Time `gorm:"column:event_join_joined_at;autoCreateTime" json:"event_join_joined_at"`
}

func (EventJoinModel) TableName() string {
	return "event_joins"
}

func (j *EventJoinModel) BeforeCreate(tx *gorm.DB) error {
	if j.EventJoinID == uuid.Nil {
		j.EventJoinID = uuid.New()
	}
	return nil
}
