// Package accesscontrol implements the grant management use cases: granting
// and revoking access, bulk role replacement, and the matrix read models
// consumed by the management screens.
package accesscontrol

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
	"github.com/factoryerp/backend/internal/domain/workflow"
)

// Service handles grant table operations and matrix views.
type Service struct {
	grants    accesscontrol.AccessGrantRepository
	workflows workflow.WorkflowRepository
	statuses  workflow.OrderStatusRepository
	snapshots *SnapshotProvider
	logger    *zap.Logger
}

// NewService creates a new access control service.
func NewService(
	grants accesscontrol.AccessGrantRepository,
	workflows workflow.WorkflowRepository,
	statuses workflow.OrderStatusRepository,
	snapshots *SnapshotProvider,
	logger *zap.Logger,
) *Service {
	return &Service{
		grants:    grants,
		workflows: workflows,
		statuses:  statuses,
		snapshots: snapshots,
		logger:    logger,
	}
}

// GrantInput identifies a single grant row.
type GrantInput struct {
	Type   string
	Target string
	Role   string
}

// SetRolesInput replaces the role set of one target.
type SetRolesInput struct {
	Type   string
	Target string
	Roles  []string
}

// MatrixRowDTO is one line of a matrix view.
type MatrixRowDTO struct {
	Target string   `json:"target"`
	Label  string   `json:"label"`
	Roles  []string `json:"roles"`
}

// ManageOrderRowDTO is one status line of the workflow-scoped matrix.
type ManageOrderRowDTO struct {
	StatusID   int      `json:"status_id"`
	StatusName string   `json:"status_name"`
	Roles      []string `json:"roles"`
}

// FeatureDTO is one catalog entry of the feature vocabulary.
type FeatureDTO struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
}

func (s *Service) parseGrant(input GrantInput) (accesscontrol.Target, accesscontrol.Role, error) {
	grantType, err := accesscontrol.ParseGrantType(input.Type)
	if err != nil {
		return accesscontrol.Target{}, "", err
	}
	target, err := accesscontrol.ParseTarget(grantType, input.Target)
	if err != nil {
		return accesscontrol.Target{}, "", err
	}
	role, err := accesscontrol.ParseRole(input.Role)
	if err != nil {
		return accesscontrol.Target{}, "", err
	}
	return target, role, nil
}

// Grant inserts a grant row. Granting an already-granted triple succeeds
// without creating a duplicate.
func (s *Service) Grant(ctx context.Context, input GrantInput) error {
	target, role, err := s.parseGrant(input)
	if err != nil {
		return err
	}

	if err := s.grants.Upsert(ctx, accesscontrol.NewAccessGrant(target, role)); err != nil {
		s.logger.Error("Failed to insert grant",
			zap.String("type", string(target.Type)),
			zap.String("target", target.String()),
			zap.String("role", string(role)),
			zap.Error(err))
		return err
	}

	s.snapshots.Invalidate(ctx, role)
	return nil
}

// Revoke deletes a grant row. Revoking from a protected role is a silent
// no-op that reports success: the owner role keeps every grant it holds.
func (s *Service) Revoke(ctx context.Context, input GrantInput) error {
	target, role, err := s.parseGrant(input)
	if err != nil {
		return err
	}

	if accesscontrol.IsProtectedRole(role) {
		s.logger.Debug("Skipping revoke for protected role",
			zap.String("target", target.String()),
			zap.String("role", string(role)))
		return nil
	}

	if err := s.grants.Delete(ctx, target.Type, target.String(), role); err != nil {
		s.logger.Error("Failed to delete grant",
			zap.String("type", string(target.Type)),
			zap.String("target", target.String()),
			zap.String("role", string(role)),
			zap.Error(err))
		return err
	}

	s.snapshots.Invalidate(ctx, role)
	return nil
}

// SetRoles replaces the role set of one target with union({owner}, roles).
// The replacement is a diff against the current grants: missing roles are
// added, extra roles removed, protected roles never removed. Writes are not
// transactional; a failure mid-diff leaves the applied part in place and
// returns the error.
func (s *Service) SetRoles(ctx context.Context, input SetRolesInput) error {
	grantType, err := accesscontrol.ParseGrantType(input.Type)
	if err != nil {
		return err
	}
	target, err := accesscontrol.ParseTarget(grantType, input.Target)
	if err != nil {
		return err
	}

	next := map[accesscontrol.Role]bool{accesscontrol.RoleOwner: true}
	for _, raw := range input.Roles {
		role, err := accesscontrol.ParseRole(raw)
		if err != nil {
			return err
		}
		next[role] = true
	}

	current, err := s.grants.FindRolesByTarget(ctx, target.Type, target.String())
	if err != nil {
		return err
	}
	currentSet := make(map[accesscontrol.Role]bool, len(current))
	for _, role := range current {
		currentSet[role] = true
	}

	for role := range next {
		if currentSet[role] {
			continue
		}
		if err := s.grants.Upsert(ctx, accesscontrol.NewAccessGrant(target, role)); err != nil {
			return err
		}
		s.snapshots.Invalidate(ctx, role)
	}

	for role := range currentSet {
		if next[role] || accesscontrol.IsProtectedRole(role) {
			continue
		}
		if err := s.grants.Delete(ctx, target.Type, target.String(), role); err != nil {
			return err
		}
		s.snapshots.Invalidate(ctx, role)
	}

	return nil
}

// PageMatrix returns one row per canonical page key, including pages with
// no grants, with roles sorted by precedence.
func (s *Service) PageMatrix(ctx context.Context) ([]MatrixRowDTO, error) {
	grants, err := s.grants.FindByType(ctx, accesscontrol.GrantTypePage)
	if err != nil {
		return nil, err
	}

	targets := make([]accesscontrol.Target, 0, len(accesscontrol.PageKeys))
	for _, key := range accesscontrol.PageKeys {
		targets = append(targets, accesscontrol.Target{Type: accesscontrol.GrantTypePage, Page: key})
	}

	rows := accesscontrol.BuildMatrix(targets, grants)
	out := make([]MatrixRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MatrixRowDTO{
			Target: row.Target.String(),
			Label:  row.Target.String(),
			Roles:  rolesToStrings(row.Roles),
		})
	}
	return out, nil
}

// FeatureMatrix returns one row per catalog feature, labeled from the
// feature definitions.
func (s *Service) FeatureMatrix(ctx context.Context) ([]MatrixRowDTO, error) {
	grants, err := s.grants.FindByType(ctx, accesscontrol.GrantTypeFeature)
	if err != nil {
		return nil, err
	}

	targets := make([]accesscontrol.Target, 0, len(accesscontrol.FeatureKeys))
	for _, key := range accesscontrol.FeatureKeys {
		targets = append(targets, accesscontrol.Target{Type: accesscontrol.GrantTypeFeature, Feature: key})
	}

	rows := accesscontrol.BuildMatrix(targets, grants)
	out := make([]MatrixRowDTO, 0, len(rows))
	for _, row := range rows {
		label := row.Target.String()
		if def, ok := accesscontrol.FeatureByKey(row.Target.Feature); ok {
			label = def.Label
		}
		out = append(out, MatrixRowDTO{
			Target: row.Target.String(),
			Label:  label,
			Roles:  rolesToStrings(row.Roles),
		})
	}
	return out, nil
}

// ManageOrderMatrix returns the matrix scoped to one workflow: exactly the
// statuses in its status sequence, in sequence order, named through the
// status reference table with a "Status {id}" fallback. A non-empty search
// narrows rows by case-insensitive substring match on the display name.
func (s *Service) ManageOrderMatrix(ctx context.Context, workflowID int, search string) ([]ManageOrderRowDTO, error) {
	wf, err := s.workflows.FindByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	statuses, err := s.statuses.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(statuses))
	for _, st := range statuses {
		names[st.ID] = st.Name
	}

	displayNames := make(map[int]string, len(wf.StatusSequence))
	targets := make([]accesscontrol.Target, 0, len(wf.StatusSequence))
	targetStrings := make([]string, 0, len(wf.StatusSequence))
	needle := strings.ToLower(strings.TrimSpace(search))
	for _, id := range wf.StatusSequence {
		name := workflow.StatusDisplayName(id, names)
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		target, err := accesscontrol.NewManageOrderTarget(id)
		if err != nil {
			// Stored sequences are validated on write; skip anything stale.
			continue
		}
		targets = append(targets, target)
		targetStrings = append(targetStrings, target.String())
		displayNames[id] = name
	}

	grants, err := s.grants.FindByTypeAndTargets(ctx, accesscontrol.GrantTypeManageOrder, targetStrings)
	if err != nil {
		return nil, err
	}

	rows := accesscontrol.BuildMatrix(targets, grants)
	out := make([]ManageOrderRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ManageOrderRowDTO{
			StatusID:   row.Target.StatusID,
			StatusName: displayNames[row.Target.StatusID],
			Roles:      rolesToStrings(row.Roles),
		})
	}
	return out, nil
}

// SnapshotDTO is the per-role view backing the runtime checkers.
type SnapshotDTO struct {
	Role        string   `json:"role"`
	Pages       []string `json:"pages"`
	ManageOrder []int    `json:"manage_order"`
	Features    []string `json:"features"`
}

// RoleSnapshot returns the cached access snapshot for a role, building it
// from the grant table on a cache miss.
func (s *Service) RoleSnapshot(ctx context.Context, rawRole string) (*SnapshotDTO, error) {
	role, err := accesscontrol.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Get(ctx, role)
	if err != nil {
		return nil, err
	}
	return toSnapshotDTO(snap), nil
}

// RefreshSnapshot rebuilds a role's snapshot from storage, replacing any
// cached copy.
func (s *Service) RefreshSnapshot(ctx context.Context, rawRole string) (*SnapshotDTO, error) {
	role, err := accesscontrol.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Refresh(ctx, role)
	if err != nil {
		return nil, err
	}
	return toSnapshotDTO(snap), nil
}

// Roles returns the role vocabulary in precedence order.
func (s *Service) Roles() []string {
	return rolesToStrings(accesscontrol.RolePrecedence)
}

// Pages returns the canonical page key list.
func (s *Service) Pages() []string {
	out := make([]string, 0, len(accesscontrol.PageKeys))
	for _, key := range accesscontrol.PageKeys {
		out = append(out, string(key))
	}
	return out
}

// Features returns the feature catalog with display metadata.
func (s *Service) Features() []FeatureDTO {
	out := make([]FeatureDTO, 0, len(accesscontrol.FeatureCatalog))
	for _, def := range accesscontrol.FeatureCatalog {
		out = append(out, FeatureDTO{
			Key:         string(def.Key),
			Label:       def.Label,
			Description: def.Description,
			Group:       string(def.Group),
		})
	}
	return out
}

func toSnapshotDTO(snap *accesscontrol.RoleAccessSnapshot) *SnapshotDTO {
	dto := &SnapshotDTO{
		Role:        string(snap.Role),
		Pages:       make([]string, 0, len(snap.Pages)),
		ManageOrder: append([]int{}, snap.ManageOrder...),
		Features:    make([]string, 0, len(snap.Features)),
	}
	for _, p := range snap.Pages {
		dto.Pages = append(dto.Pages, string(p))
	}
	for _, f := range snap.Features {
		dto.Features = append(dto.Features, string(f))
	}
	return dto
}

func rolesToStrings(roles []accesscontrol.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
