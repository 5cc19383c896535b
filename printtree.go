package wad

import (
	"fmt"
	"io"
)

// PrintTree prints a level's BSP tree in a clear format, right child first.
// A node reached a second time is printed once more, marked as repeated,
// without its subtree.
func PrintTree(w io.Writer, l *Level) error {
	visited := make([]bool, len(l.Nodes))
	var printRecursive func(ChildRef, string) error
	printRecursive = func(ref ChildRef, prefix string) error {
		switch {
		case ref == NoChild:
			_, err := fmt.Fprintln(w, prefix+"- null")
			return err
		case ref.IsLeaf():
			i := ref.SubSector()
			if i >= len(l.SubSectors) {
				_, err := fmt.Fprintf(w, "%s- subsector %d (out of range)\n", prefix, i)
				return err
			}
			ss := l.SubSectors[i]
			_, err := fmt.Fprintf(w, "%s- subsector %d: sector %d, segs %d+%d\n", prefix, i, ss.Sector, ss.FirstSeg, ss.NumSegs)
			return err
		case ref.Node() >= len(l.Nodes):
			_, err := fmt.Fprintf(w, "%s- node %d (invalid)\n", prefix, ref.Node())
			return err
		case visited[ref.Node()]:
			_, err := fmt.Fprintf(w, "%s- node %d (repeated)\n", prefix, ref.Node())
			return err
		}
		visited[ref.Node()] = true

		n := &l.Nodes[ref.Node()]
		if _, err := fmt.Fprintf(w, "%s- node %d: (%v,%v) d(%v,%v)\n", prefix, ref.Node(), n.X, n.Y, n.DX, n.DY); err != nil {
			return err
		}
		for side := range n.Children {
			if err := printRecursive(n.Child(side), prefix+"   "); err != nil {
				return err
			}
		}
		return nil
	}

	if len(l.Nodes) == 0 {
		return printRecursive(LeafRef(0), "")
	}
	return printRecursive(ChildRef(l.RootNode()), "")
}
