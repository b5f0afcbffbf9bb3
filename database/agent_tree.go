package database

// TagCounts holds the per-agent FASTag tallies rolled up through the tree
type TagCounts struct {
	Total    int64 `json:"total"`
	Assigned int64 `json:"assigned"`
	Sold     int64 `json:"sold"`
}

func (c *TagCounts) add(o TagCounts) {
	c.Total += o.Total
	c.Assigned += o.Assigned
	c.Sold += o.Sold
}

// AgentNode is one agent in the hierarchy with its own counts and the
// aggregate including every descendant
type AgentNode struct {
	Agent        User         `json:"agent"`
	Children     []*AgentNode `json:"children"`
	Own          TagCounts    `json:"own"`
	WithChildren TagCounts    `json:"with_children"`
}

// AgentForest is the result of building the hierarchy from a flat agent
// list. CycleIDs lists agents whose parent edge closed a loop; those edges
// are dropped and the agents promoted to roots instead of recursing forever.
type AgentForest struct {
	Roots    []*AgentNode `json:"roots"`
	CycleIDs []uint       `json:"cycle_ids,omitempty"`

	index map[uint]*AgentNode
}

// Node returns the node for an agent id, nil if absent
func (f *AgentForest) Node(id uint) *AgentNode {
	return f.index[id]
}

// BuildAgentForest groups a flat agent list into a rooted forest. Children
// keep the input order. An agent whose parent is missing from the list
// becomes a root. Parent edges that would close a cycle are broken and the
// offending agent ids reported.
func BuildAgentForest(agents []User, counts map[uint]TagCounts) *AgentForest {
	forest := &AgentForest{index: make(map[uint]*AgentNode, len(agents))}

	for i := range agents {
		a := agents[i]
		node := &AgentNode{Agent: a}
		if c, ok := counts[a.ID]; ok {
			node.Own = c
		}
		forest.index[a.ID] = node
	}

	for i := range agents {
		a := agents[i]
		node := forest.index[a.ID]

		if a.ParentUserID == nil {
			forest.Roots = append(forest.Roots, node)
			continue
		}
		parent, ok := forest.index[*a.ParentUserID]
		if !ok {
			// Parent not in the list; treat as a root
			forest.Roots = append(forest.Roots, node)
			continue
		}
		if createsCycle(forest, a.ID, *a.ParentUserID) {
			forest.CycleIDs = append(forest.CycleIDs, a.ID)
			forest.Roots = append(forest.Roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for _, root := range forest.Roots {
		aggregate(root)
	}
	return forest
}

// createsCycle reports whether attaching child under parent would close a
// loop, by walking the already-linked ancestor chain from parent.
func createsCycle(f *AgentForest, childID, parentID uint) bool {
	seen := map[uint]bool{childID: true}
	cur, ok := f.index[parentID]
	for ok {
		if seen[cur.Agent.ID] {
			return true
		}
		seen[cur.Agent.ID] = true
		if cur.Agent.ParentUserID == nil {
			return false
		}
		cur, ok = f.index[*cur.Agent.ParentUserID]
	}
	return false
}

// aggregate computes WithChildren bottom-up: own counts plus the sum over
// every descendant
func aggregate(n *AgentNode) TagCounts {
	n.WithChildren = n.Own
	for _, child := range n.Children {
		n.WithChildren.add(aggregate(child))
	}
	return n.WithChildren
}

// AgentTagCounts loads the per-agent tallies the forest is aggregated from
func AgentTagCounts() (map[uint]TagCounts, error) {
	type row struct {
		AssignedToAgentID uint
		Status            string
		N                 int64
	}
	var rows []row
	err := DB.Model(&FasTag{}).
		Select("assigned_to_agent_id, status, count(*) as n").
		Where("assigned_to_agent_id IS NOT NULL").
		Group("assigned_to_agent_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]TagCounts)
	for _, r := range rows {
		c := counts[r.AssignedToAgentID]
		c.Total += r.N
		switch NormalizeFasTagStatus(r.Status) {
		case FasTagStatusAssigned:
			c.Assigned += r.N
		case FasTagStatusSold:
			c.Sold += r.N
		}
		counts[r.AssignedToAgentID] = c
	}
	return counts, nil
}
