// Package workflow implements the order-workflow reference data use cases.
package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/factoryerp/backend/internal/domain/workflow"
)

// Service handles workflow and order status operations.
type Service struct {
	workflows workflow.WorkflowRepository
	statuses  workflow.OrderStatusRepository
	logger    *zap.Logger
}

// NewService creates a new workflow service.
func NewService(workflows workflow.WorkflowRepository, statuses workflow.OrderStatusRepository, logger *zap.Logger) *Service {
	return &Service{
		workflows: workflows,
		statuses:  statuses,
		logger:    logger,
	}
}

// WorkflowDTO is the outward representation of a workflow.
type WorkflowDTO struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	StatusSequence []int  `json:"status_sequence"`
}

// StatusDTO is the outward representation of an order status.
type StatusDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CreateWorkflowInput contains input for creating a workflow.
type CreateWorkflowInput struct {
	Name           string
	StatusSequence []int
}

// UpdateWorkflowInput contains input for updating a workflow. Nil fields
// are left unchanged.
type UpdateWorkflowInput struct {
	Name           *string
	StatusSequence []int
}

// Create validates and stores a new workflow.
func (s *Service) Create(ctx context.Context, input CreateWorkflowInput) (*WorkflowDTO, error) {
	wf, err := workflow.NewOrderWorkflow(input.Name, input.StatusSequence)
	if err != nil {
		return nil, err
	}
	if err := s.workflows.Create(ctx, wf); err != nil {
		s.logger.Error("Failed to create workflow", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}
	return toWorkflowDTO(wf), nil
}

// Update applies partial changes to a workflow.
func (s *Service) Update(ctx context.Context, id int, input UpdateWorkflowInput) (*WorkflowDTO, error) {
	wf, err := s.workflows.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := wf.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.StatusSequence != nil {
		if err := wf.SetStatusSequence(input.StatusSequence); err != nil {
			return nil, err
		}
	}
	if err := s.workflows.Update(ctx, wf); err != nil {
		s.logger.Error("Failed to update workflow", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return toWorkflowDTO(wf), nil
}

// Delete removes a workflow.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.workflows.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete workflow", zap.Int("id", id), zap.Error(err))
		return err
	}
	return nil
}

// Get returns one workflow by id.
func (s *Service) Get(ctx context.Context, id int) (*WorkflowDTO, error) {
	wf, err := s.workflows.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWorkflowDTO(wf), nil
}

// List returns every workflow.
func (s *Service) List(ctx context.Context) ([]WorkflowDTO, error) {
	wfs, err := s.workflows.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WorkflowDTO, 0, len(wfs))
	for i := range wfs {
		out = append(out, *toWorkflowDTO(&wfs[i]))
	}
	return out, nil
}

// Statuses returns the order status reference list.
func (s *Service) Statuses(ctx context.Context) ([]StatusDTO, error) {
	statuses, err := s.statuses.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StatusDTO, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, StatusDTO{ID: st.ID, Name: st.Name})
	}
	return out, nil
}

func toWorkflowDTO(wf *workflow.OrderWorkflow) *WorkflowDTO {
	return &WorkflowDTO{
		ID:             wf.ID,
		Name:           wf.Name,
		StatusSequence: append([]int{}, wf.StatusSequence...),
	}
}
