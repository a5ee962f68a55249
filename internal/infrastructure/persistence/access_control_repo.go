package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
)

// GormAccessGrantRepository implements AccessGrantRepository using GORM
type GormAccessGrantRepository struct {
	db *gorm.DB
}

// NewGormAccessGrantRepository creates a new GormAccessGrantRepository
func NewGormAccessGrantRepository(db *gorm.DB) *GormAccessGrantRepository {
	return &GormAccessGrantRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormAccessGrantRepository) WithTx(tx *gorm.DB) *GormAccessGrantRepository {
	return &GormAccessGrantRepository{db: tx}
}

// Upsert inserts a grant row, ignoring the write when the (type, target,
// role) triple already exists. RowsAffected is deliberately not checked: a
// duplicate grant is a success, not a conflict.
func (r *GormAccessGrantRepository) Upsert(ctx context.Context, grant *accesscontrol.AccessGrant) error {
	model := models.AccessControlModelFromDomain(grant)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "target"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(model)
	return result.Error
}

// Delete removes the matching grant row. Deleting an absent row succeeds.
func (r *GormAccessGrantRepository) Delete(ctx context.Context, grantType accesscontrol.GrantType, target string, role accesscontrol.Role) error {
	result := r.db.WithContext(ctx).
		Where("type = ? AND target = ? AND role = ?", string(grantType), target, string(role)).
		Delete(&models.AccessControlModel{})
	return result.Error
}

// FindByType returns every grant of one type
func (r *GormAccessGrantRepository) FindByType(ctx context.Context, grantType accesscontrol.GrantType) ([]accesscontrol.AccessGrant, error) {
	var rows []models.AccessControlModel
	err := r.db.WithContext(ctx).
		Where("type = ?", string(grantType)).
		Order("target, role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGrants(rows), nil
}

// FindByTypeAndTargets returns the grants of one type restricted to targets
func (r *GormAccessGrantRepository) FindByTypeAndTargets(ctx context.Context, grantType accesscontrol.GrantType, targets []string) ([]accesscontrol.AccessGrant, error) {
	if len(targets) == 0 {
		return []accesscontrol.AccessGrant{}, nil
	}
	var rows []models.AccessControlModel
	err := r.db.WithContext(ctx).
		Where("type = ? AND target IN ?", string(grantType), targets).
		Order("target, role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGrants(rows), nil
}

// FindRolesByTarget returns the roles currently granted for one target
func (r *GormAccessGrantRepository) FindRolesByTarget(ctx context.Context, grantType accesscontrol.GrantType, target string) ([]accesscontrol.Role, error) {
	var raw []string
	err := r.db.WithContext(ctx).
		Model(&models.AccessControlModel{}).
		Where("type = ? AND target = ?", string(grantType), target).
		Pluck("role", &raw).Error
	if err != nil {
		return nil, err
	}
	roles := make([]accesscontrol.Role, 0, len(raw))
	for _, s := range raw {
		roles = append(roles, accesscontrol.Role(s))
	}
	return roles, nil
}

// FindTargetsByRole returns the raw target strings of one type granted to
// the role
func (r *GormAccessGrantRepository) FindTargetsByRole(ctx context.Context, grantType accesscontrol.GrantType, role accesscontrol.Role) ([]string, error) {
	var targets []string
	err := r.db.WithContext(ctx).
		Model(&models.AccessControlModel{}).
		Where("type = ? AND role = ?", string(grantType), string(role)).
		Pluck("target", &targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}

func toGrants(rows []models.AccessControlModel) []accesscontrol.AccessGrant {
	grants := make([]accesscontrol.AccessGrant, 0, len(rows))
	for i := range rows {
		grants = append(grants, *rows[i].ToDomain())
	}
	return grants
}

// Ensure GormAccessGrantRepository implements AccessGrantRepository
var _ accesscontrol.AccessGrantRepository = (*GormAccessGrantRepository)(nil)
