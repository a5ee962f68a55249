package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	accesscontrol "github.com/factoryerp/backend/internal/application/accesscontrol"
	"github.com/factoryerp/backend/internal/interfaces/http/dto"
	"github.com/factoryerp/backend/internal/interfaces/http/middleware"
)

// AccessControlService is the application surface the handler depends on
type AccessControlService interface {
	Grant(ctx context.Context, input accesscontrol.GrantInput) error
	Revoke(ctx context.Context, input accesscontrol.GrantInput) error
	SetRoles(ctx context.Context, input accesscontrol.SetRolesInput) error
	PageMatrix(ctx context.Context) ([]accesscontrol.MatrixRowDTO, error)
	FeatureMatrix(ctx context.Context) ([]accesscontrol.MatrixRowDTO, error)
	ManageOrderMatrix(ctx context.Context, workflowID int, search string) ([]accesscontrol.ManageOrderRowDTO, error)
	RoleSnapshot(ctx context.Context, role string) (*accesscontrol.SnapshotDTO, error)
	RefreshSnapshot(ctx context.Context, role string) (*accesscontrol.SnapshotDTO, error)
	Roles() []string
	Pages() []string
	Features() []accesscontrol.FeatureDTO
}

// AccessControlHandler handles access control HTTP requests
type AccessControlHandler struct {
	BaseHandler
	service AccessControlService
}

// NewAccessControlHandler creates a new access control handler
func NewAccessControlHandler(service AccessControlService) *AccessControlHandler {
	return &AccessControlHandler{service: service}
}

// ListRoles returns the role vocabulary in precedence order.
// GET /access-control/roles
func (h *AccessControlHandler) ListRoles(c *gin.Context) {
	h.Success(c, h.service.Roles())
}

// ListPages returns the page vocabulary.
// GET /access-control/pages
func (h *AccessControlHandler) ListPages(c *gin.Context) {
	h.Success(c, h.service.Pages())
}

// ListFeatures returns the feature catalog.
// GET /access-control/features
func (h *AccessControlHandler) ListFeatures(c *gin.Context) {
	h.Success(c, h.service.Features())
}

// Matrix returns the full grant matrix for a grant type.
// GET /access-control/:type/matrix
func (h *AccessControlHandler) Matrix(c *gin.Context) {
	var req dto.GrantTypeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidGrantType, "Unknown grant type")
		return
	}

	switch req.Type {
	case "page":
		rows, err := h.service.PageMatrix(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, rows)
	case "feature":
		rows, err := h.service.FeatureMatrix(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, rows)
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidGrantType, "Manage-order matrices are workflow-scoped; use the manage-order matrix endpoint")
	}
}

// ManageOrderMatrix returns the manage-order matrix scoped to one workflow.
// GET /access-control/manage-order/matrix?workflow_id=N&search=...
func (h *AccessControlHandler) ManageOrderMatrix(c *gin.Context) {
	var req dto.ManageOrderMatrixRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "workflow_id query parameter is required")
		return
	}

	rows, err := h.service.ManageOrderMatrix(c.Request.Context(), req.WorkflowID, req.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Grant adds one role grant.
// POST /access-control/:type/grants
func (h *AccessControlHandler) Grant(c *gin.Context) {
	var uriReq dto.GrantTypeRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidGrantType, "Unknown grant type")
		return
	}

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	input := accesscontrol.GrantInput{
		Type:   uriReq.Type,
		Target: req.Target,
		Role:   req.Role,
	}
	if err := h.service.Grant(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Revoke removes one role grant. Revoking the owner role is a no-op.
// DELETE /access-control/:type/grants
func (h *AccessControlHandler) Revoke(c *gin.Context) {
	var uriReq dto.GrantTypeRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidGrantType, "Unknown grant type")
		return
	}

	var req dto.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	input := accesscontrol.GrantInput{
		Type:   uriReq.Type,
		Target: req.Target,
		Role:   req.Role,
	}
	if err := h.service.Revoke(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetRoles replaces the full role set of one target.
// PUT /access-control/:type/targets/:target/roles
func (h *AccessControlHandler) SetRoles(c *gin.Context) {
	var uriReq dto.TargetRolesRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidGrantType, "Unknown grant type")
		return
	}

	var req dto.SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return
	}

	input := accesscontrol.SetRolesInput{
		Type:   uriReq.Type,
		Target: uriReq.Target,
		Roles:  req.Roles,
	}
	if err := h.service.SetRoles(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Snapshot returns the access snapshot for a role. Defaults to the caller's
// own role; only owners may request another role's snapshot.
// GET /access-control/snapshot
func (h *AccessControlHandler) Snapshot(c *gin.Context) {
	caller := middleware.GetJWTRole(c)
	role := c.Query("role")
	switch {
	case role == "":
		role = caller
	case role != caller && !middleware.CallerIsOwner(c):
		h.Forbidden(c, "Only owners may inspect another role's snapshot")
		return
	}

	snap, err := h.service.RoleSnapshot(c.Request.Context(), role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snap)
}

// RefreshSnapshot rebuilds a role's snapshot from the grant table.
// POST /access-control/snapshot/refresh
func (h *AccessControlHandler) RefreshSnapshot(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		role = middleware.GetJWTRole(c)
	}

	snap, err := h.service.RefreshSnapshot(c.Request.Context(), role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snap)
}
