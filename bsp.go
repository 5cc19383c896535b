package wad

import "fmt"

// PointOnSide returns the side of node's partition line that (x, y) lies on:
// 1 for the left side, 0 for the right side or the line itself.
func PointOnSide(x, y float32, n *Node) int {
	if (y-n.Y)*n.DX > n.DY*(x-n.X) {
		return 1
	}
	return 0
}

// Return child for side
func (n *Node) Child(side int) ChildRef {
	return n.Children[side&1]
}

// Return bound box for side
func (n *Node) BoundBox(side int) *BoundBox {
	return &n.BBox[side&1]
}

// RootNode returns the index of the BSP root, the last node, or -1 when the
// level has no nodes.
func (l *Level) RootNode() int {
	return len(l.Nodes) - 1
}

// LocateLeaf returns the subsector containing (x, y). A level without nodes
// is a single subsector.
func (l *Level) LocateLeaf(x, y float32) (int, error) {
	if len(l.Nodes) == 0 {
		if len(l.SubSectors) == 0 {
			return -1, fmt.Errorf("%w: level has no subsectors", ErrIndex)
		}
		return 0, nil
	}

	cursor := ChildRef(l.RootNode())
	// A well formed tree reaches a leaf in fewer steps than it has nodes
	for i, n := 0, len(l.Nodes); i < n; i++ {
		node := &l.Nodes[cursor.Node()]
		cursor = node.Child(PointOnSide(x, y, node))
		switch {
		case cursor == NoChild:
			return -1, fmt.Errorf("%w: node reached a missing child", ErrIndex)
		case cursor.IsLeaf():
			if cursor.SubSector() >= len(l.SubSectors) {
				return -1, fmt.Errorf("%w: leaf references subsector %d of %d", ErrIndex, cursor.SubSector(), len(l.SubSectors))
			}
			return cursor.SubSector(), nil
		case cursor.Node() >= len(l.Nodes):
			return -1, fmt.Errorf("%w: child references node %d of %d", ErrIndex, cursor.Node(), len(l.Nodes))
		}
	}
	return -1, fmt.Errorf("%w: no leaf after %d nodes, tree has a cycle", ErrIndex, len(l.Nodes))
}

// Navigator walks a level's BSP tree one node at a time, the way a viewer
// follows the user's pointer.
type Navigator struct {
	level    *Level
	selected int
	side     int
}

// NewNavigator starts at the root of level.
func NewNavigator(level *Level) *Navigator {
	return &Navigator{level: level, selected: level.RootNode()}
}

// Selected returns the current node index, -1 if the level has no nodes.
func (n *Navigator) Selected() int {
	return n.selected
}

// HighlightedSide returns the side chosen by the last Hover.
func (n *Navigator) HighlightedSide() int {
	return n.side
}

// Hover classifies (x, y) against the selected node and returns the side.
func (n *Navigator) Hover(x, y float32) int {
	if n.selected < 0 {
		return 0
	}
	n.side = PointOnSide(x, y, &n.level.Nodes[n.selected])
	return n.side
}

// Step descends to the highlighted child. It returns the child and whether
// the selection moved; leaves and missing children leave it in place.
func (n *Navigator) Step() (ChildRef, bool) {
	if n.selected < 0 {
		return NoChild, false
	}
	child := n.level.Nodes[n.selected].Child(n.side)
	if child == NoChild || child.IsLeaf() || child.Node() >= len(n.level.Nodes) {
		return child, false
	}
	n.selected = child.Node()
	n.side = 0
	return child, true
}

// Reset returns to the root node.
func (n *Navigator) Reset() {
	n.selected = n.level.RootNode()
	n.side = 0
}
