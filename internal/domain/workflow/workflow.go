// Package workflow holds the order-workflow reference data: named sequences
// of order statuses that an order type progresses through. The access layer
// uses a workflow's status sequence to scope the manage-order matrix.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// OrderStatus is one known order status, referenced by workflows.
type OrderStatus struct {
	ID   int
	Name string
}

// OrderWorkflow is an ordered sequence of statuses an order moves through.
type OrderWorkflow struct {
	ID             int
	Name           string
	StatusSequence []int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrderWorkflow validates and creates a workflow. The status sequence
// must be non-empty, contain positive ids, and contain no duplicates.
func NewOrderWorkflow(name string, statusSequence []int) (*OrderWorkflow, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateSequence(statusSequence); err != nil {
		return nil, err
	}
	now := time.Now()
	return &OrderWorkflow{
		Name:           strings.TrimSpace(name),
		StatusSequence: statusSequence,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Rename changes the workflow name.
func (w *OrderWorkflow) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	w.Name = strings.TrimSpace(name)
	w.UpdatedAt = time.Now()
	return nil
}

// SetStatusSequence replaces the ordered status list.
func (w *OrderWorkflow) SetStatusSequence(statusSequence []int) error {
	if err := validateSequence(statusSequence); err != nil {
		return err
	}
	w.StatusSequence = statusSequence
	w.UpdatedAt = time.Now()
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "workflow name cannot be empty")
	}
	return nil
}

func validateSequence(seq []int) error {
	if len(seq) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "status sequence cannot be empty")
	}
	seen := make(map[int]bool, len(seq))
	for _, id := range seq {
		if id <= 0 {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid status id in sequence: %d", id))
		}
		if seen[id] {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("duplicate status id in sequence: %d", id))
		}
		seen[id] = true
	}
	return nil
}

// StatusDisplayName resolves a status id through the id-to-name map,
// falling back to "Status {id}" for ids with no known name.
func StatusDisplayName(statusID int, names map[int]string) string {
	if name, ok := names[statusID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Status %d", statusID)
}
