package model

// DependencyNode represents one saved object discovered during a dependency
// traversal. References holds the forward edges the object declares;
// ReferencedBy holds the backward edges discovered as a side effect of the
// traversal finding a parent that points at this node. It is not a global
// reverse index: a node reachable from two parents carries two ReferencedBy
// entries only if both parents were visited before the depth cutoff.
type DependencyNode struct {
	Key          ObjectKey   `json:"key"`
	Title        string      `json:"title,omitempty"`
	References   []Reference `json:"references"`
	ReferencedBy []Reference `json:"referenced_by"`
	Depth        int         `json:"depth"`
}

// TreeSummary holds aggregate statistics about a dependency tree.
type TreeSummary struct {
	TotalObjects int `json:"total_objects"`
	MaxDepth     int `json:"max_depth"`

	// MostReferenced lists up to ten nodes with at least one inbound
	// reference, ordered by inbound count descending.
	MostReferenced []*DependencyNode `json:"most_referenced"`

	// Orphans lists nodes with no discovered inbound reference.
	// The root is never an orphan, even when nothing points at it.
	Orphans []*DependencyNode `json:"orphans"`
}

// DependencyTree is the result of a forward-reference traversal from a single
// root object. AllNodes contains exactly the objects fetched (or recorded as
// failure stubs) during the traversal, keyed by object identity.
type DependencyTree struct {
	Root     *DependencyNode               `json:"root"`
	AllNodes map[ObjectKey]*DependencyNode `json:"-"`
	Summary  TreeSummary                   `json:"summary"`
}

// Node returns the node for key, or nil if it was not discovered.
func (t *DependencyTree) Node(key ObjectKey) *DependencyNode {
	return t.AllNodes[key]
}
