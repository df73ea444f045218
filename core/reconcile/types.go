package reconcile

import (
	"time"

	"asset-core/core/identity"
)

// Result is the reconciliation output for a single path.
type Result struct {
	// Path is the asset path relative to the storage prefix.
	Path string `json:"path"`

	// GUID is the identity the in-memory map holds, or the persisted one when the
	// map has none.
	GUID string `json:"guid,omitempty"`

	// Mapped indicates whether the in-memory map holds the path.
	Mapped bool `json:"mapped"`

	// Persisted indicates whether the stored manifest holds the path.
	Persisted bool `json:"persisted"`

	// Present indicates whether the object exists in the bucket.
	Present bool `json:"present"`

	// Mismatch describes disagreements between the map and the manifest,
	// e.g. "guid: map=... manifest=...".
	Mismatch []string `json:"mismatch"`
}

// Spec scopes a reconciliation.
type Spec struct {
	// Prefix is the key prefix under which source assets are stored.
	Prefix string

	// Exclude lists key prefixes that are never treated as assets.
	Exclude []string

	// CacheTTL is the time-to-live of the built index. If zero, caching is disabled.
	CacheTTL time.Duration
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionAdopt merges a persisted mapping into the in-memory map.
	ActionAdopt ActionType = "adopt"
	// ActionAssign mints an identity for an unmapped object.
	ActionAssign ActionType = "assign"
	// ActionPersist writes the in-memory map back to the manifest store.
	ActionPersist ActionType = "persist"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Path is the asset path the action applies to.
	Path string `json:"path"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// GUID is the persisted identity for adopt actions.
	GUID identity.GUID `json:"-"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	Results []Result    `json:"results"`
	Actions []Action    `json:"actions"`
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// TotalItems is the number of distinct paths across all sources.
	TotalItems int `json:"total_items"`

	// Unmapped counts objects that neither the map nor the manifest holds.
	Unmapped int `json:"unmapped"`

	// Unpersisted counts mapped paths missing from the manifest.
	Unpersisted int `json:"unpersisted"`

	// MissingObjects counts mapped or persisted paths with no object.
	MissingObjects int `json:"missing_objects"`

	// Mismatches counts paths whose identity differs between map and manifest.
	Mismatches int `json:"mismatches"`

	AdoptActions   int `json:"adopt_actions"`
	AssignActions  int `json:"assign_actions"`
	PersistActions int `json:"persist_actions"`

	persistedOnly int
}

// Options controls which actions a plan contains and whether Apply executes them.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Adopt plans merging persisted mappings the map lacks.
	Adopt bool

	// Assign plans minting identities for unmapped objects.
	Assign bool

	// Persist plans saving the map when the manifest is behind.
	Persist bool

	// Confirmed indicates the caller has confirmed the mutations.
	// If false, Apply executes nothing regardless of DryRun.
	Confirmed bool
}
