package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/factoryerp/backend/internal/domain/workflow"
)

// OrderWorkflowModel is the GORM model for order workflows. The status
// sequence is stored as a Postgres integer array in workflow order.
type OrderWorkflowModel struct {
	ID             int           `gorm:"primaryKey;autoIncrement"`
	Name           string        `gorm:"size:128;not null;uniqueIndex"`
	StatusSequence pq.Int64Array `gorm:"type:integer[];not null"`
	CreatedAt      time.Time     `gorm:"not null"`
	UpdatedAt      time.Time     `gorm:"not null"`
}

// TableName returns the table name
func (OrderWorkflowModel) TableName() string {
	return "order_workflows"
}

// ToDomain converts the model to a domain entity
func (m *OrderWorkflowModel) ToDomain() *workflow.OrderWorkflow {
	seq := make([]int, 0, len(m.StatusSequence))
	for _, id := range m.StatusSequence {
		seq = append(seq, int(id))
	}
	return &workflow.OrderWorkflow{
		ID:             m.ID,
		Name:           m.Name,
		StatusSequence: seq,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// OrderWorkflowModelFromDomain converts a domain entity to a model
func OrderWorkflowModelFromDomain(wf *workflow.OrderWorkflow) *OrderWorkflowModel {
	seq := make(pq.Int64Array, 0, len(wf.StatusSequence))
	for _, id := range wf.StatusSequence {
		seq = append(seq, int64(id))
	}
	return &OrderWorkflowModel{
		ID:             wf.ID,
		Name:           wf.Name,
		StatusSequence: seq,
		CreatedAt:      wf.CreatedAt,
		UpdatedAt:      wf.UpdatedAt,
	}
}

// OrderStatusModel is the GORM model for the order status reference table.
type OrderStatusModel struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128;not null"`
}

// TableName returns the table name
func (OrderStatusModel) TableName() string {
	return "order_statuses"
}

// ToDomain converts the model to a domain value
func (m *OrderStatusModel) ToDomain() workflow.OrderStatus {
	return workflow.OrderStatus{ID: m.ID, Name: m.Name}
}
