package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

// SnapshotSource resolves the access snapshot for a role. Implemented by the
// application snapshot provider.
type SnapshotSource interface {
	Get(ctx context.Context, role accesscontrol.Role) (*accesscontrol.RoleAccessSnapshot, error)
}

// AccessMiddleware guards routes with role access snapshot checks. It runs
// after JWT authentication and reads the role from the gin context.
type AccessMiddleware struct {
	snapshots SnapshotSource
	logger    *zap.Logger
}

// NewAccessMiddleware creates access control middleware backed by a snapshot source
func NewAccessMiddleware(snapshots SnapshotSource, logger *zap.Logger) *AccessMiddleware {
	return &AccessMiddleware{
		snapshots: snapshots,
		logger:    logger,
	}
}

// RequirePageAccess allows only roles granted the given page.
func (m *AccessMiddleware) RequirePageAccess(page accesscontrol.PageKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := m.snapshot(c)
		if !ok {
			return
		}
		if !snap.CanViewPage(page) {
			m.deny(c, "Page access denied")
			return
		}
		c.Next()
	}
}

// RequireFeature allows only roles granted the given feature.
func (m *AccessMiddleware) RequireFeature(feature accesscontrol.FeatureKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok := m.snapshot(c)
		if !ok {
			return
		}
		if !snap.HasFeature(feature) {
			m.deny(c, "Feature access denied")
			return
		}
		c.Next()
	}
}

// RequireManageOrderStatus allows only roles granted manage access for the
// order status named by the given path parameter.
func (m *AccessMiddleware) RequireManageOrderStatus(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		statusID, err := strconv.Atoi(c.Param(param))
		if err != nil || statusID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_INVALID_TARGET",
					"message": "Invalid order status ID",
				},
			})
			return
		}

		snap, ok := m.snapshot(c)
		if !ok {
			return
		}
		if !snap.CanManageStatus(statusID) {
			m.deny(c, "Order status management denied")
			return
		}
		c.Next()
	}
}

// snapshot resolves the caller's snapshot, aborting the request on failure.
func (m *AccessMiddleware) snapshot(c *gin.Context) (*accesscontrol.RoleAccessSnapshot, bool) {
	roleStr := GetJWTRole(c)
	role, err := accesscontrol.ParseRole(roleStr)
	if err != nil {
		m.deny(c, "Unknown role")
		return nil, false
	}

	// Owner bypasses snapshot checks entirely.
	if role == accesscontrol.RoleOwner {
		c.Next()
		return nil, false
	}

	snap, err := m.snapshots.Get(c.Request.Context(), role)
	if err != nil {
		if m.logger != nil {
			m.logger.Error("Failed to resolve access snapshot",
				zap.String("role", roleStr),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_INTERNAL",
				"message": "Failed to resolve access rights",
			},
		})
		return nil, false
	}
	return snap, true
}

// CallerIsOwner reports whether the authenticated caller holds the owner role.
func CallerIsOwner(c *gin.Context) bool {
	role, err := accesscontrol.ParseRole(GetJWTRole(c))
	return err == nil && role == accesscontrol.RoleOwner
}

func (m *AccessMiddleware) deny(c *gin.Context, message string) {
	if m.logger != nil {
		m.logger.Debug("Access denied",
			zap.String("role", GetJWTRole(c)),
			zap.String("path", c.Request.URL.Path))
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": message,
		},
	})
}
