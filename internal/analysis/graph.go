package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/model"
)

// DefaultMaxDepth is the traversal depth used when callers do not choose one.
const DefaultMaxDepth = 5

// TreeOptions holds parameters for BuildDependencyTree.
type TreeOptions struct {
	// Space selects the Kibana space; empty means the default space.
	Space string

	// MaxDepth bounds the traversal. Depth 0 fetches only the root.
	// Negative values are treated as 0.
	MaxDepth int

	// MostReferencedLimit caps the Summary.MostReferenced list.
	// Zero means the default of 10.
	MostReferencedLimit int
}

// BuildDependencyTree walks forward references depth-first from the root
// object and reconstructs backward edges from the traversal. Fetch failures
// degrade to empty stub nodes rather than aborting; the call fails only on an
// invalid root key.
//
// A reference cycle is broken by the per-call visited set: the second time a
// node is reached it is returned without re-expansion, so traversal always
// terminates, but ReferencedBy entries contributed past the cutoff are lost.
func (a *Analyzer) BuildDependencyTree(ctx context.Context, root model.ObjectKey, opts TreeOptions) (*model.DependencyTree, error) {
	if !root.IsValid() {
		return nil, fmt.Errorf("invalid root object %q", root.String())
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	if opts.MostReferencedLimit <= 0 {
		opts.MostReferencedLimit = 10
	}

	b := &treeBuilder{
		analyzer: a,
		space:    opts.Space,
		maxDepth: opts.MaxDepth,
		nodes:    make(map[model.ObjectKey]*model.DependencyNode),
	}
	rootNode := b.visit(ctx, root, 0)

	return &model.DependencyTree{
		Root:     rootNode,
		AllNodes: b.nodes,
		Summary:  summarize(b.nodes, root, opts.MostReferencedLimit),
	}, nil
}

// treeBuilder owns the traversal state for a single BuildDependencyTree call.
// The node map doubles as the visited set: a key is present exactly when the
// object has been fetched, successfully or as a failure stub.
type treeBuilder struct {
	analyzer *Analyzer
	space    string
	maxDepth int
	nodes    map[model.ObjectKey]*model.DependencyNode
}

func (b *treeBuilder) visit(ctx context.Context, key model.ObjectKey, depth int) *model.DependencyNode {
	if node, ok := b.nodes[key]; ok {
		return node
	}
	if depth > b.maxDepth {
		// Past the cutoff: hand back a placeholder that is not recorded in
		// the node map, so edges into it are dropped with it.
		return emptyNode(key, depth)
	}

	node := emptyNode(key, depth)
	b.nodes[key] = node

	obj, err := b.analyzer.client.GetObject(ctx, key.Type, key.ID, kibana.GetOptions{Space: b.space})
	if err != nil {
		// Degrade in place: the stub records that the object was reachable
		// but could not be fetched.
		b.analyzer.logger.Warn("fetch failed during traversal",
			"object", key.String(), "depth", depth, "error", err)
		return node
	}

	node.Title = obj.Title()
	node.References = append(node.References, obj.References...)

	for _, ref := range obj.References {
		child := b.visit(ctx, ref.Key(), depth+1)
		child.ReferencedBy = append(child.ReferencedBy, model.Reference{
			ID:   key.ID,
			Type: key.Type,
			Name: node.Title,
		})
	}
	return node
}

func emptyNode(key model.ObjectKey, depth int) *model.DependencyNode {
	return &model.DependencyNode{
		Key:          key,
		References:   []model.Reference{},
		ReferencedBy: []model.Reference{},
		Depth:        depth,
	}
}

func summarize(nodes map[model.ObjectKey]*model.DependencyNode, root model.ObjectKey, mostReferencedLimit int) model.TreeSummary {
	s := model.TreeSummary{TotalObjects: len(nodes)}

	var referenced []*model.DependencyNode
	for key, node := range nodes {
		if node.Depth > s.MaxDepth {
			s.MaxDepth = node.Depth
		}
		switch {
		case len(node.ReferencedBy) > 0:
			referenced = append(referenced, node)
		case key != root:
			s.Orphans = append(s.Orphans, node)
		}
	}

	sort.Slice(referenced, func(i, j int) bool {
		if len(referenced[i].ReferencedBy) != len(referenced[j].ReferencedBy) {
			return len(referenced[i].ReferencedBy) > len(referenced[j].ReferencedBy)
		}
		return referenced[i].Key.String() < referenced[j].Key.String()
	})
	if len(referenced) > mostReferencedLimit {
		referenced = referenced[:mostReferencedLimit]
	}
	s.MostReferenced = referenced

	sort.Slice(s.Orphans, func(i, j int) bool {
		return s.Orphans[i].Key.String() < s.Orphans[j].Key.String()
	})

	return s
}
