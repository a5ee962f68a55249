package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/factoryerp/backend/internal/application/workflow"
	"github.com/factoryerp/backend/internal/interfaces/http/dto"
	"github.com/factoryerp/backend/internal/interfaces/http/middleware"
)

// WorkflowService is the application surface the handler depends on
type WorkflowService interface {
	Create(ctx context.Context, input workflow.CreateWorkflowInput) (*workflow.WorkflowDTO, error)
	Update(ctx context.Context, id int, input workflow.UpdateWorkflowInput) (*workflow.WorkflowDTO, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*workflow.WorkflowDTO, error)
	List(ctx context.Context) ([]workflow.WorkflowDTO, error)
	Statuses(ctx context.Context) ([]workflow.StatusDTO, error)
}

// WorkflowHandler handles order workflow HTTP requests
type WorkflowHandler struct {
	BaseHandler
	service WorkflowService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(service WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// Create creates a new workflow.
// POST /workflows
func (h *WorkflowHandler) Create(c *gin.Context) {
	var req dto.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), workflow.CreateWorkflowInput{
		Name:           req.Name,
		StatusSequence: req.StatusSequence,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update partially updates a workflow.
// PUT /workflows/:id
func (h *WorkflowHandler) Update(c *gin.Context) {
	var uriReq dto.WorkflowIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	var req dto.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), uriReq.ID, workflow.UpdateWorkflowInput{
		Name:           req.Name,
		StatusSequence: req.StatusSequence,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Delete removes a workflow.
// DELETE /workflows/:id
func (h *WorkflowHandler) Delete(c *gin.Context) {
	var uriReq dto.WorkflowIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), uriReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns one workflow.
// GET /workflows/:id
func (h *WorkflowHandler) Get(c *gin.Context) {
	var uriReq dto.WorkflowIDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid workflow ID")
		return
	}

	wf, err := h.service.Get(c.Request.Context(), uriReq.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wf)
}

// List returns all workflows.
// GET /workflows
func (h *WorkflowHandler) List(c *gin.Context) {
	workflows, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, workflows)
}

// ListStatuses returns the order status catalog.
// GET /order-statuses
func (h *WorkflowHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.service.Statuses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}
