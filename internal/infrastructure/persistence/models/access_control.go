package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

// AccessControlModel is the GORM model for the access_control grant table.
// The (type, target, role) triple is unique; duplicate inserts are ignored
// at the repository level with an ON CONFLICT DO NOTHING clause.
type AccessControlModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"size:32;not null;uniqueIndex:idx_access_control_triple,priority:1"`
	Target    string    `gorm:"size:128;not null;uniqueIndex:idx_access_control_triple,priority:2"`
	Role      string    `gorm:"size:64;not null;uniqueIndex:idx_access_control_triple,priority:3"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (AccessControlModel) TableName() string {
	return "access_control"
}

// ToDomain converts the model to a domain entity
func (m *AccessControlModel) ToDomain() *accesscontrol.AccessGrant {
	return &accesscontrol.AccessGrant{
		ID:        m.ID,
		Type:      accesscontrol.GrantType(m.Type),
		Target:    m.Target,
		Role:      accesscontrol.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AccessControlModelFromDomain converts a domain entity to a model
func AccessControlModelFromDomain(grant *accesscontrol.AccessGrant) *AccessControlModel {
	return &AccessControlModel{
		ID:        grant.ID,
		Type:      string(grant.Type),
		Target:    grant.Target,
		Role:      string(grant.Role),
		CreatedAt: grant.CreatedAt,
		UpdatedAt: grant.UpdatedAt,
	}
}
