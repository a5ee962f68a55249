package router

import (
	"github.com/factoryerp/backend/internal/domain/accesscontrol"
	"github.com/factoryerp/backend/internal/interfaces/http/handler"
	"github.com/factoryerp/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers wired into the API surface
type Handlers struct {
	AccessControl *handler.AccessControlHandler
	Workflow      *handler.WorkflowHandler
	System        *handler.SystemHandler
}

// BuildAPIGroups assembles the domain route groups. Grant edits and matrix
// views are management surface; vocabulary lists and the caller's own
// snapshot are open to any authenticated role.
func BuildAPIGroups(h Handlers, access *middleware.AccessMiddleware) []*DomainGroup {
	manage := access.RequirePageAccess(accesscontrol.PageManagement)

	ac := NewDomainGroup("access-control", "/access-control")
	ac.GET("/roles", h.AccessControl.ListRoles)
	ac.GET("/pages", h.AccessControl.ListPages)
	ac.GET("/features", h.AccessControl.ListFeatures)
	ac.GET("/snapshot", h.AccessControl.Snapshot)
	ac.POST("/snapshot/refresh", manage, h.AccessControl.RefreshSnapshot)
	ac.GET("/manage-order/matrix", manage, h.AccessControl.ManageOrderMatrix)
	ac.GET("/:type/matrix", manage, h.AccessControl.Matrix)
	ac.POST("/:type/grants", manage, h.AccessControl.Grant)
	ac.DELETE("/:type/grants", manage, h.AccessControl.Revoke)
	ac.PUT("/:type/targets/:target/roles", manage, h.AccessControl.SetRoles)

	wf := NewDomainGroup("workflows", "/workflows")
	wf.GET("", h.Workflow.List)
	wf.GET("/:id", h.Workflow.Get)
	wf.POST("", manage, h.Workflow.Create)
	wf.PUT("/:id", manage, h.Workflow.Update)
	wf.DELETE("/:id", manage, h.Workflow.Delete)

	statuses := NewDomainGroup("order-statuses", "/order-statuses")
	statuses.GET("", h.Workflow.ListStatuses)

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", h.System.Ping)

	return []*DomainGroup{ac, wf, statuses, system}
}
