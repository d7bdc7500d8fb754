package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipationModel links a user account to the organization it works
// for. Used by resolveOrgID and the organization-targeted notification
// audience.
type ParticipationModel struct {
	ParticipationID             uuid.UUID `gorm:"column:participation_id;type:uuid;primaryKey" json:"participation_id"`
	ParticipationUserID         uuid.UUID `gorm:"column:participation_user_id;type:uuid;not null;uniqueIndex:ux_participations_user_org" json:"participation_user_id"`
	ParticipationOrganizationID uuid.UUID `gorm:"column:participation_organization_id;type:uuid;not null;uniqueIndex:ux_participations_user_org;index:idx_participations_org" json:"participation_organization_id"`
	ParticipationJoinedAt       time.Time `gorm:"column:participation_joined_at;autoCreateTime" json:"participation_joined_at"`
}

func (ParticipationModel) TableName() string {
	return "participations"
}

func (p *ParticipationModel) BeforeCreate(tx *gorm.DB) error {
	if p.ParticipationID == uuid.Nil {
		p.ParticipationID = uuid.New()
	}
	return nil
}
