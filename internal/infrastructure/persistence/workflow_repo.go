package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/workflow"
	"github.com/factoryerp/backend/internal/infrastructure/persistence/models"
)

// GormWorkflowRepository implements WorkflowRepository using GORM
type GormWorkflowRepository struct {
	db *gorm.DB
}

// NewGormWorkflowRepository creates a new GormWorkflowRepository
func NewGormWorkflowRepository(db *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: db}
}

// WithTx returns a new repository instance with the given transaction
func (r *GormWorkflowRepository) WithTx(tx *gorm.DB) *GormWorkflowRepository {
	return &GormWorkflowRepository{db: tx}
}

// Create stores a new workflow and backfills the generated id
func (r *GormWorkflowRepository) Create(ctx context.Context, wf *workflow.OrderWorkflow) error {
	model := models.OrderWorkflowModelFromDomain(wf)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	wf.ID = model.ID
	return nil
}

// Update rewrites the workflow row
func (r *GormWorkflowRepository) Update(ctx context.Context, wf *workflow.OrderWorkflow) error {
	model := models.OrderWorkflowModelFromDomain(wf)
	result := r.db.WithContext(ctx).
		Model(&models.OrderWorkflowModel{}).
		Where("id = ?", wf.ID).
		Updates(map[string]any{
			"name":            model.Name,
			"status_sequence": model.StatusSequence,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a workflow
func (r *GormWorkflowRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderWorkflowModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID returns one workflow by id
func (r *GormWorkflowRepository) FindByID(ctx context.Context, id int) (*workflow.OrderWorkflow, error) {
	var model models.OrderWorkflowModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every workflow ordered by id
func (r *GormWorkflowRepository) FindAll(ctx context.Context) ([]workflow.OrderWorkflow, error) {
	var rows []models.OrderWorkflowModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]workflow.OrderWorkflow, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// GormOrderStatusRepository implements OrderStatusRepository using GORM
type GormOrderStatusRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusRepository creates a new GormOrderStatusRepository
func NewGormOrderStatusRepository(db *gorm.DB) *GormOrderStatusRepository {
	return &GormOrderStatusRepository{db: db}
}

// FindAll returns the full status reference list ordered by id
func (r *GormOrderStatusRepository) FindAll(ctx context.Context) ([]workflow.OrderStatus, error) {
	var rows []models.OrderStatusModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStatuses(rows), nil
}

// FindByIDs returns the statuses matching the given ids
func (r *GormOrderStatusRepository) FindByIDs(ctx context.Context, ids []int) ([]workflow.OrderStatus, error) {
	if len(ids) == 0 {
		return []workflow.OrderStatus{}, nil
	}
	var rows []models.OrderStatusModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStatuses(rows), nil
}

func toStatuses(rows []models.OrderStatusModel) []workflow.OrderStatus {
	out := make([]workflow.OrderStatus, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

// Ensure the repositories implement their domain ports
var (
	_ workflow.WorkflowRepository    = (*GormWorkflowRepository)(nil)
	_ workflow.OrderStatusRepository = (*GormOrderStatusRepository)(nil)
)
