package workflow

import "context"

// WorkflowRepository is the storage port for order workflows.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *OrderWorkflow) error
	Update(ctx context.Context, wf *OrderWorkflow) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*OrderWorkflow, error)
	FindAll(ctx context.Context) ([]OrderWorkflow, error)
}

// OrderStatusRepository is the storage port for the status reference table.
type OrderStatusRepository interface {
	FindAll(ctx context.Context) ([]OrderStatus, error)
	FindByIDs(ctx context.Context, ids []int) ([]OrderStatus, error)
}
