package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationModel struct {
	OrganizationID        uuid.UUID `gorm:"column:organization_id;type:uuid;primaryKey" json:"organization_id"`
	OrganizationName      string    `gorm:"column:organization_name;size:255;not null" json:"organization_name"`
	OrganizationType      string    `gorm:"column:organization_type;size:100" json:"organization_type"`
	OrganizationCreatedAt time.Time `gorm:"column:organization_created_at;autoCreateTime" json:"organization_created_at"`
	OrganizationUpdatedAt time.Time `gorm:"column:organization_updated_at;autoUpdateTime" json:"organization_updated_at"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

func (o *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if o.OrganizationID == uuid.Nil {
		o.OrganizationID = uuid.New()
	}
	return nil
}
