package accesscontrol

import (
	"sort"
	"strconv"
)

// RoleAccessSnapshot is the per-role read model backing the O(1) runtime
// checkers. The exported slices are the serialized form (sorted, no
// duplicates); membership indexes are rebuilt on construction and must be
// rebuilt again after decoding, see Reindex.
type RoleAccessSnapshot struct {
	Role        Role         `json:"role"`
	Pages       []PageKey    `json:"pages"`
	ManageOrder []int        `json:"manage_order"`
	Features    []FeatureKey `json:"features"`

	pageSet    map[PageKey]bool
	statusSet  map[int]bool
	featureSet map[FeatureKey]bool
}

// NewRoleAccessSnapshot assembles a snapshot from the raw target strings of
// the role's grants, one slice per grant type. Feature targets outside the
// catalog and non-numeric status targets are dropped silently: they are
// stale rows, not errors.
func NewRoleAccessSnapshot(role Role, pageTargets, statusTargets, featureTargets []string) *RoleAccessSnapshot {
	snap := &RoleAccessSnapshot{
		Role:        role,
		Pages:       make([]PageKey, 0, len(pageTargets)),
		ManageOrder: make([]int, 0, len(statusTargets)),
		Features:    make([]FeatureKey, 0, len(featureTargets)),
	}

	seenPages := make(map[PageKey]bool, len(pageTargets))
	for _, raw := range pageTargets {
		key := PageKey(raw)
		if !seenPages[key] {
			seenPages[key] = true
			snap.Pages = append(snap.Pages, key)
		}
	}

	seenStatuses := make(map[int]bool, len(statusTargets))
	for _, raw := range statusTargets {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if !seenStatuses[id] {
			seenStatuses[id] = true
			snap.ManageOrder = append(snap.ManageOrder, id)
		}
	}

	seenFeatures := make(map[FeatureKey]bool, len(featureTargets))
	for _, raw := range featureTargets {
		if !IsFeatureKey(raw) {
			continue
		}
		key := FeatureKey(raw)
		if !seenFeatures[key] {
			seenFeatures[key] = true
			snap.Features = append(snap.Features, key)
		}
	}

	sort.Slice(snap.Pages, func(i, j int) bool { return snap.Pages[i] < snap.Pages[j] })
	sort.Ints(snap.ManageOrder)
	sort.Slice(snap.Features, func(i, j int) bool { return snap.Features[i] < snap.Features[j] })

	snap.Reindex()
	return snap
}

// Reindex rebuilds the membership indexes from the exported slices. Callers
// that decode a snapshot from JSON must call this before using the checkers.
func (s *RoleAccessSnapshot) Reindex() {
	s.pageSet = make(map[PageKey]bool, len(s.Pages))
	for _, p := range s.Pages {
		s.pageSet[p] = true
	}
	s.statusSet = make(map[int]bool, len(s.ManageOrder))
	for _, id := range s.ManageOrder {
		s.statusSet[id] = true
	}
	s.featureSet = make(map[FeatureKey]bool, len(s.Features))
	for _, f := range s.Features {
		s.featureSet[f] = true
	}
}

// CanViewPage reports whether the role holds a page grant for key.
func (s *RoleAccessSnapshot) CanViewPage(key PageKey) bool {
	return s.pageSet[key]
}

// CanManageStatus reports whether the role may transition orders through
// the given status.
func (s *RoleAccessSnapshot) CanManageStatus(statusID int) bool {
	return s.statusSet[statusID]
}

// HasFeature reports whether the role holds the feature toggle.
func (s *RoleAccessSnapshot) HasFeature(key FeatureKey) bool {
	return s.featureSet[key]
}
