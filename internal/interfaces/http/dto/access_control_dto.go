package dto

// GrantRequest adds one role grant for a target
type GrantRequest struct {
	Target string `json:"target" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// RevokeRequest removes one role grant from a target
type RevokeRequest struct {
	Target string `json:"target" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// SetRolesRequest replaces the full role set of a target
type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// GrantTypeRequest binds the grant type path parameter
type GrantTypeRequest struct {
	Type string `uri:"type" binding:"required,oneof=page manage_order feature"`
}

// TargetRolesRequest binds the grant type and target path parameters
type TargetRolesRequest struct {
	Type   string `uri:"type" binding:"required,oneof=page manage_order feature"`
	Target string `uri:"target" binding:"required"`
}

// ManageOrderMatrixRequest binds the manage-order matrix query parameters
type ManageOrderMatrixRequest struct {
	WorkflowID int    `form:"workflow_id" binding:"required,min=1"`
	Search     string `form:"search"`
}

// CreateWorkflowRequest creates a new order workflow
type CreateWorkflowRequest struct {
	Name           string `json:"name" binding:"required"`
	StatusSequence []int  `json:"status_sequence" binding:"required,min=1,dive,min=1"`
}

// UpdateWorkflowRequest partially updates a workflow. Nil fields are left
// unchanged.
type UpdateWorkflowRequest struct {
	Name           *string `json:"name"`
	StatusSequence []int   `json:"status_sequence" binding:"omitempty,min=1,dive,min=1"`
}

// WorkflowIDRequest binds a numeric workflow ID path parameter
type WorkflowIDRequest struct {
	ID int `uri:"id" binding:"required,min=1"`
}
