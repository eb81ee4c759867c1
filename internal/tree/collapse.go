package tree

// CollapseLookup answers whether the container at a path is collapsed.
type CollapseLookup interface {
	IsCollapsed(p Path) bool
}

// Expanded is a lookup under which every node is expanded.
var Expanded CollapseLookup = expandedLookup{}

type expandedLookup struct{}

func (expandedLookup) IsCollapsed(Path) bool { return false }

// CollapseState stores collapse choices keyed by path. Nodes without an
// explicit choice follow the depth policy: by default everything is
// expanded. Toggling a node never affects any other node.
type CollapseState struct {
	overrides map[Path]bool
	// containers at this depth or deeper start collapsed; 0 disables the policy
	depth int
}

// NewCollapseState returns a state with every node expanded.
func NewCollapseState() *CollapseState {
	return &CollapseState{overrides: make(map[Path]bool)}
}

// IsCollapsed reports whether the node at p is collapsed.
func (c *CollapseState) IsCollapsed(p Path) bool {
	if c == nil {
		return false
	}
	if collapsed, ok := c.overrides[p]; ok {
		return collapsed
	}
	return c.depth > 0 && p.Depth() >= c.depth
}

// Set records an explicit choice for p.
func (c *CollapseState) Set(p Path, collapsed bool) {
	c.overrides[p] = collapsed
}

// Toggle flips p and returns its new state.
func (c *CollapseState) Toggle(p Path) bool {
	collapsed := !c.IsCollapsed(p)
	c.overrides[p] = collapsed
	return collapsed
}

// ExpandAll forgets every choice and expands every node.
func (c *CollapseState) ExpandAll() {
	c.overrides = make(map[Path]bool)
	c.depth = 0
}

// CollapseAll forgets every choice and collapses every node below the root.
func (c *CollapseState) CollapseAll() {
	c.CollapseFromDepth(1)
}

// CollapseFromDepth forgets every choice and collapses nodes at depth and
// deeper. A depth of 0 expands everything.
func (c *CollapseState) CollapseFromDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	c.overrides = make(map[Path]bool)
	c.depth = depth
}

// Overrides returns the number of explicit choices.
func (c *CollapseState) Overrides() int { return len(c.overrides) }
