package accesscontrol

// PageKey identifies one navigable page of the application.
type PageKey string

const (
	PageHome                PageKey = "home"
	PageParts               PageKey = "parts"
	PageViewPart            PageKey = "view part"
	PageOrders              PageKey = "orders"
	PageCreateOrder         PageKey = "create order"
	PageViewOrder           PageKey = "view order"
	PageManageOrder         PageKey = "manage order"
	PageStorage             PageKey = "storage"
	PageMachine             PageKey = "machine"
	PageInvoice             PageKey = "invoice"
	PageManagement          PageKey = "management"
	PageProject             PageKey = "project"
	PageBusinessLens        PageKey = "businesslens"
	PageBusinessLensReports PageKey = "businesslens reports"
)

// PageKeys is the canonical page list. Matrix views are total over this
// list: every key appears in the output even with zero grants.
var PageKeys = []PageKey{
	PageHome,
	PageParts,
	PageViewPart,
	PageOrders,
	PageCreateOrder,
	PageViewOrder,
	PageManageOrder,
	PageStorage,
	PageMachine,
	PageInvoice,
	PageManagement,
	PageProject,
	PageBusinessLens,
	PageBusinessLensReports,
}

var pageKeyIndex = buildPageIndex()

func buildPageIndex() map[PageKey]bool {
	idx := make(map[PageKey]bool, len(PageKeys))
	for _, k := range PageKeys {
		idx[k] = true
	}
	return idx
}

// IsPageKey reports whether s names a known page.
func IsPageKey(s string) bool {
	return pageKeyIndex[PageKey(s)]
}

// FeatureKey identifies a fine-grained capability toggle independent of
// page or workflow access.
type FeatureKey string

const (
	FeatureFinanceVisibility        FeatureKey = "finance_visibility"
	FeatureStorageInstantAdd        FeatureKey = "storage_instant_add"
	FeatureStorageManualUpdates     FeatureKey = "storage_manual_updates"
	FeatureMachineInstantAdd        FeatureKey = "machine_instant_add"
	FeatureMachineManualUpdates     FeatureKey = "machine_manual_updates"
	FeatureOrderDelete              FeatureKey = "order_delete"
	FeatureOrderCreate              FeatureKey = "order_create"
	FeatureDamagedPartManualUpdates FeatureKey = "damaged_parts_manual_updates"
)

// FeatureGroup tags a feature for presentation grouping only. It carries no
// authorization meaning.
type FeatureGroup string

const (
	FeatureGroupStorage      FeatureGroup = "Storage"
	FeatureGroupMachine      FeatureGroup = "Machine"
	FeatureGroupOrder        FeatureGroup = "Order"
	FeatureGroupFinance      FeatureGroup = "Finance"
	FeatureGroupDamagedParts FeatureGroup = "Damaged Parts"
)

// FeatureDefinition describes a feature toggle for catalog and matrix views.
type FeatureDefinition struct {
	Key         FeatureKey
	Label       string
	Description string
	Group       FeatureGroup
}

// FeatureCatalog is the canonical feature list with display metadata.
var FeatureCatalog = []FeatureDefinition{
	{
		Key:         FeatureFinanceVisibility,
		Label:       "Finance visibility",
		Description: "See purchase prices, invoice amounts and other financial figures",
		Group:       FeatureGroupFinance,
	},
	{
		Key:         FeatureStorageInstantAdd,
		Label:       "Instant storage add",
		Description: "Add storage stock without a confirmation step",
		Group:       FeatureGroupStorage,
	},
	{
		Key:         FeatureStorageManualUpdates,
		Label:       "Manual storage updates",
		Description: "Edit storage quantities directly",
		Group:       FeatureGroupStorage,
	},
	{
		Key:         FeatureMachineInstantAdd,
		Label:       "Instant machine add",
		Description: "Register machines without a confirmation step",
		Group:       FeatureGroupMachine,
	},
	{
		Key:         FeatureMachineManualUpdates,
		Label:       "Manual machine updates",
		Description: "Edit machine records directly",
		Group:       FeatureGroupMachine,
	},
	{
		Key:   FeatureOrderDelete,
		Label: "Delete orders",
		Group: FeatureGroupOrder,
	},
	{
		Key:   FeatureOrderCreate,
		Label: "Create orders",
		Group: FeatureGroupOrder,
	},
	{
		Key:         FeatureDamagedPartManualUpdates,
		Label:       "Manual damaged part updates",
		Description: "Adjust damaged part counts directly",
		Group:       FeatureGroupDamagedParts,
	},
}

// FeatureKeys is the canonical feature key list, in catalog order.
var FeatureKeys = buildFeatureKeys()

var featureKeyIndex = buildFeatureIndex()

func buildFeatureKeys() []FeatureKey {
	keys := make([]FeatureKey, 0, len(FeatureCatalog))
	for _, def := range FeatureCatalog {
		keys = append(keys, def.Key)
	}
	return keys
}

func buildFeatureIndex() map[FeatureKey]FeatureDefinition {
	idx := make(map[FeatureKey]FeatureDefinition, len(FeatureCatalog))
	for _, def := range FeatureCatalog {
		idx[def.Key] = def
	}
	return idx
}

// IsFeatureKey reports whether s names a known feature. Stored targets that
// fail this check are stale keys and get dropped from snapshots.
func IsFeatureKey(s string) bool {
	_, ok := featureKeyIndex[FeatureKey(s)]
	return ok
}

// FeatureByKey returns the catalog entry for a known feature key.
func FeatureByKey(key FeatureKey) (FeatureDefinition, bool) {
	def, ok := featureKeyIndex[key]
	return def, ok
}
