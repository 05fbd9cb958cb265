package configurator

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
)

// Graph is an in-memory read model of one option tree version. Nodes and
// edges stay a flat relation list (no embedded child pointers) so traversal
// is a pure function over maps and slices.
type Graph struct {
	Version *types.OptionTreeVersion

	nodes      map[uuid.UUID]*types.OptionNode
	out        map[uuid.UUID][]*types.OptionEdge // non-deleted, priority order
	inbound    map[uuid.UUID][]*types.OptionEdge // non-deleted
	hasInbound map[uuid.UUID]bool                // any status, including deleted
	conditions map[uuid.UUID]*Condition
	rootNodes  []*types.OptionNode
}

// NewGraph indexes the rows of one tree version. It fails with a
// ValidationError on dangling edge endpoints or undecodable edge
// conditions; deeper structural checks live in Validate.
func NewGraph(version *types.OptionTreeVersion, nodes []*types.OptionNode, edges []*types.OptionEdge) (*Graph, error) {
	g := &Graph{
		Version:    version,
		nodes:      make(map[uuid.UUID]*types.OptionNode, len(nodes)),
		out:        make(map[uuid.UUID][]*types.OptionEdge),
		inbound:    make(map[uuid.UUID][]*types.OptionEdge),
		hasInbound: make(map[uuid.UUID]bool),
		conditions: make(map[uuid.UUID]*Condition),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
	}
	for _, e := range edges {
		if _, ok := g.nodes[e.FromNodeID]; !ok {
			return nil, validationErrorf("edge %s references missing from-node %s", e.ID, e.FromNodeID)
		}
		if _, ok := g.nodes[e.ToNodeID]; !ok {
			return nil, validationErrorf("edge %s references missing to-node %s", e.ID, e.ToNodeID)
		}
		g.hasInbound[e.ToNodeID] = true
		if e.Status == types.GraphStatusDeleted {
			continue
		}
		cond, err := decodeCondition(e.Condition)
		if err != nil {
			return nil, validationErrorf("edge %s has a malformed condition: %v", e.ID, err)
		}
		g.conditions[e.ID] = cond
		g.out[e.FromNodeID] = append(g.out[e.FromNodeID], e)
		g.inbound[e.ToNodeID] = append(g.inbound[e.ToNodeID], e)
	}
	for _, list := range g.out {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority != list[j].Priority {
				return list[i].Priority < list[j].Priority
			}
			return list[i].ID.String() < list[j].ID.String()
		})
	}

	// Roots: non-deleted nodes with no inbound non-deleted edge. A node
	// whose only inbound edges were soft-deleted is an orphan, not a root;
	// Validate rejects those.
	for _, n := range nodes {
		if n.Status == types.GraphStatusDeleted {
			continue
		}
		if len(g.inbound[n.ID]) == 0 && !g.hasInbound[n.ID] {
			g.rootNodes = append(g.rootNodes, n)
		}
	}
	sort.SliceStable(g.rootNodes, func(i, j int) bool {
		a, b := g.rootNodes[i], g.rootNodes[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID.String() < b.ID.String()
	})
	return g, nil
}

// Node returns the node row for id, including soft-deleted nodes.
func (g *Graph) Node(id uuid.UUID) (*types.OptionNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Validate runs the structural checks: no cycles among non-deleted edges,
// and no enabled question node stranded without an enabled inbound edge.
// Questions with no inbound edges at all are roots and stay legal; hiding a
// question is done by disabling the node, not by disabling every path to it.
func (g *Graph) Validate() error {
	if err := g.checkAcyclic(); err != nil {
		return err
	}
	for id, n := range g.nodes {
		if n.Status != types.GraphStatusEnabled {
			continue
		}
		if n.Kind != types.NodeKindQuestion {
			continue
		}
		if !g.hasInbound[id] {
			continue
		}
		live := false
		for _, e := range g.inbound[id] {
			if e.Status == types.GraphStatusEnabled {
				live = true
				break
			}
		}
		if !live {
			return validationErrorf("question node %s (%s) is referenced by no enabled inbound edge", id, n.Key)
		}
	}
	return nil
}

func (g *Graph) checkAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[uuid.UUID]int, len(g.nodes))
	var visit func(id uuid.UUID) error
	visit = func(id uuid.UUID) error {
		switch state[id] {
		case visiting:
			return validationErrorf("containment cycle through node %s", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, e := range g.out[id] {
			if err := visit(e.ToNodeID); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for id := range g.nodes {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// visibleNodes computes the visible node set for a selection set: a
// breadth-first walk from the roots along enabled edges whose condition
// passes, entering only enabled nodes. Children of an invisible group stay
// invisible. The returned order is deterministic.
func (g *Graph) visibleNodes(sel Selections) []*types.OptionNode {
	var order []*types.OptionNode
	seen := make(map[uuid.UUID]bool, len(g.nodes))

	queue := make([]*types.OptionNode, 0, len(g.rootNodes))
	for _, r := range g.rootNodes {
		if r.Status != types.GraphStatusEnabled {
			continue
		}
		queue = append(queue, r)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		order = append(order, n)

		for _, e := range g.out[n.ID] {
			if e.Status != types.GraphStatusEnabled {
				continue
			}
			if cond := g.conditions[e.ID]; cond != nil && !cond.eval(sel) {
				continue
			}
			child, ok := g.nodes[e.ToNodeID]
			if !ok || child.Status != types.GraphStatusEnabled || seen[child.ID] {
				continue
			}
			queue = append(queue, child)
		}
	}
	return order
}
