package wad

import (
	"bytes"
	"fmt"
)

// NodeFormat is the binary encoding the level's BSP tree was stored in.
type NodeFormat int

const (
	NodeFormatStandard NodeFormat = iota
	NodeFormatXNOD
)

func (f NodeFormat) String() string {
	switch f {
	case NodeFormatStandard:
		return "standard nodes"
	case NodeFormatXNOD:
		return "XNOD extended nodes"
	}
	return fmt.Sprintf("NodeFormat(%d)", int(f))
}

var xnodMagic = []byte("XNOD")

// Node is a BSP partition line with the bounding boxes and children of its
// two half-spaces. Side 0 is the right (front) side, side 1 the left.
type Node struct {
	X, Y     float32
	DX, DY   float32
	BBox     [2]BoundBox
	Children [2]ChildRef
}

// ChildRef is a node index, or a subsector index tagged with LeafFlag.
type ChildRef int32

const (
	// LeafFlag tags a ChildRef as a subsector index.
	LeafFlag ChildRef = -0x80000000

	// NoChild marks a missing child. It is not a leaf.
	NoChild ChildRef = -1
)

// LeafRef returns the child reference of subsector index i.
func LeafRef(i int) ChildRef {
	return ChildRef(i) | LeafFlag
}

// IsLeaf reports whether c refers to a subsector.
func (c ChildRef) IsLeaf() bool {
	return c != NoChild && c&LeafFlag != 0
}

// SubSector returns the subsector index of a leaf reference.
func (c ChildRef) SubSector() int {
	return int(c &^ LeafFlag)
}

// Node returns the node index of a non-leaf reference.
func (c ChildRef) Node() int {
	return int(c)
}

func (c ChildRef) String() string {
	switch {
	case c == NoChild:
		return "none"
	case c.IsLeaf():
		return fmt.Sprintf("subsector %d", c.SubSector())
	}
	return fmt.Sprintf("node %d", c.Node())
}

// readNodes decodes segs, subsectors and nodes, picking the format from the
// NODES lump's leading tag.
func (l *Level) readNodes(segs, subsectors, nodes Lump) error {
	if bytes.HasPrefix(nodes.Data, xnodMagic) {
		l.NodeFormat = NodeFormatXNOD
		return l.readXNOD(nodes.Data)
	}
	l.NodeFormat = NodeFormatStandard
	return l.readStandardNodes(segs, subsectors, nodes)
}

func (l *Level) readStandardNodes(segsLump, subsectorsLump, nodesLump Lump) error {
	logger.Println("Reading Segs ...")
	binSegs, err := readRecords[binSeg](segsLump)
	if err != nil {
		return err
	}
	l.Segs = make([]Seg, len(binSegs))
	for i, s := range binSegs {
		if s.Side < 0 || s.Side > 1 {
			return fmt.Errorf("%w: seg %d side out of range (value: %d)", ErrFormat, i, s.Side)
		}
		seg, err := l.resolveSeg(i, int(s.V1), int(s.V2), int(s.LineNum), int(s.Side))
		if err != nil {
			return err
		}
		seg.Offset = float32(s.Offset)
		l.Segs[i] = seg
	}
	logger.Printf("Read %v segs", len(l.Segs))

	logger.Println("Reading Sub Sectors ...")
	binSubSectors, err := readRecords[binSubSector](subsectorsLump)
	if err != nil {
		return err
	}
	l.SubSectors = make([]SubSector, len(binSubSectors))
	for i, s := range binSubSectors {
		l.SubSectors[i] = SubSector{FirstSeg: int(s.FirstSeg), NumSegs: int(s.NumSegs)}
	}
	if err := l.setSubSectorSectors(); err != nil {
		return err
	}
	logger.Printf("Read %v sub sectors", len(l.SubSectors))

	logger.Println("Reading Nodes ...")
	binNodes, err := readRecords[binNode](nodesLump)
	if err != nil {
		return err
	}
	l.Nodes = make([]Node, len(binNodes))
	for i, n := range binNodes {
		node := Node{
			X:    float32(n.X),
			Y:    float32(n.Y),
			DX:   float32(n.DX),
			DY:   float32(n.DY),
			BBox: [2]BoundBox{n.BBox[0].toBoundBox(), n.BBox[1].toBoundBox()},
		}
		for side, child := range n.Children {
			node.Children[side] = standardChild(child, len(l.SubSectors), i, side)
		}
		l.Nodes[i] = node
	}
	logger.Printf("Read %v nodes", len(l.Nodes))
	return nil
}

// standardChild widens a 16-bit child reference. Subsector indices past the
// end are replaced with 0.
func standardChild(v uint16, numSubSectors, node, side int) ChildRef {
	switch {
	case v == 0xffff:
		return NoChild
	case v&0x8000 != 0:
		idx := int(v & 0x7fff)
		if idx >= numSubSectors {
			warnf("node %d child %d references subsector %d of %d, using 0", node, side, idx, numSubSectors)
			idx = 0
		}
		return LeafRef(idx)
	}
	return ChildRef(v)
}

// resolveSeg builds seg i from its vertex, linedef and side numbers. A linedef
// number past the end is replaced with 0.
func (l *Level) resolveSeg(i, v1, v2, lineNum, side int) (Seg, error) {
	if err := checkIndex("seg", i, "vertex", v1, len(l.Vertexes)); err != nil {
		return Seg{}, err
	}
	if err := checkIndex("seg", i, "vertex", v2, len(l.Vertexes)); err != nil {
		return Seg{}, err
	}
	if lineNum < 0 || lineNum >= len(l.Lines) {
		if len(l.Lines) == 0 {
			return Seg{}, fmt.Errorf("%w: seg %d references linedef %d, map has none", ErrIndex, i, lineNum)
		}
		warnf("seg %d references linedef %d of %d, using 0", i, lineNum, len(l.Lines))
		lineNum = 0
	}

	line := &l.Lines[lineNum]
	front := line.Side(side)
	if front == NoSide {
		return Seg{}, fmt.Errorf("%w: seg %d uses missing side %d of linedef %d", ErrIndex, i, side, lineNum)
	}
	seg := Seg{
		V1:          v1,
		V2:          v2,
		Line:        lineNum,
		Side:        side,
		Length:      l.Vertexes[v2].Vec2().Sub(l.Vertexes[v1].Vec2()).Len(),
		FrontSector: l.Sides[front].Sector,
		BackSector:  NoSector,
	}
	if back := line.Side(side ^ 1); line.TwoSided() && back != NoSide {
		seg.BackSector = l.Sides[back].Sector
	}
	return seg, nil
}

// setSubSectorSectors takes each subsector's sector from its first seg.
func (l *Level) setSubSectorSectors() error {
	for i := range l.SubSectors {
		ss := &l.SubSectors[i]
		if ss.FirstSeg < 0 || ss.NumSegs < 0 || ss.FirstSeg >= len(l.Segs) || ss.FirstSeg+ss.NumSegs > len(l.Segs) {
			return fmt.Errorf("%w: subsector %d segs %d+%d of %d", ErrIndex, i, ss.FirstSeg, ss.NumSegs, len(l.Segs))
		}
		ss.Sector = l.Segs[ss.FirstSeg].FrontSector
	}
	return nil
}
