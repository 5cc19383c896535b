package wad

import "fmt"

const (
	xnodVertexSize = 8
	xnodSegSize    = 11
	xnodNodeSize   = 32
)

// readXNOD decodes a ZDoom extended node stream stored in the NODES lump. The
// SEGS and SSECTORS lumps are unused by this format.
func (l *Level) readXNOD(data []byte) error {
	logger.Println("Reading XNOD nodes ...")

	s := newStream(data)
	s.skip(len(xnodMagic))

	if err := l.readXNODVertexes(s); err != nil {
		return err
	}
	total, err := l.readXNODSubSectors(s)
	if err != nil {
		return err
	}
	if err := l.readXNODSegs(s, total); err != nil {
		return err
	}
	if err := l.setSubSectorSectors(); err != nil {
		return err
	}
	if err := l.readXNODNodes(s); err != nil {
		return err
	}
	logger.Printf("Read %v subsectors, %v segs, %v nodes", len(l.SubSectors), len(l.Segs), len(l.Nodes))
	return nil
}

func (l *Level) readXNODVertexes(s *stream) error {
	orgVerts := s.u32()
	newVerts := s.u32()
	if !s.need(newVerts, xnodVertexSize) {
		return s.err
	}
	if int64(orgVerts) > int64(len(l.Vertexes)) {
		return fmt.Errorf("%w: XNOD declares %d original vertexes, map has %d", ErrFormat, orgVerts, len(l.Vertexes))
	}

	added := make([]Vertex, newVerts)
	for i := range added {
		added[i] = Vertex{X: fixedToFloat(s.i32()), Y: fixedToFloat(s.i32())}
	}

	numOrg := int(orgVerts)
	if numOrg+len(added) == len(l.Vertexes) {
		copy(l.Vertexes[numOrg:], added)
	} else {
		vertexes := make([]Vertex, numOrg, numOrg+len(added))
		copy(vertexes, l.Vertexes[:numOrg])
		l.Vertexes = append(vertexes, added...)
		if err := l.relinkLines(); err != nil {
			return err
		}
	}
	logger.Printf("Read %v original and %v new vertexes", orgVerts, newVerts)
	return nil
}

// relinkLines re-validates linedef vertex indices after the vertex array is
// replaced. Indices below the original count keep their meaning.
func (l *Level) relinkLines() error {
	for i := range l.Lines {
		line := &l.Lines[i]
		if err := checkIndex("line", i, "vertex", line.V1, len(l.Vertexes)); err != nil {
			return err
		}
		if err := checkIndex("line", i, "vertex", line.V2, len(l.Vertexes)); err != nil {
			return err
		}
	}
	return nil
}

// readXNODSubSectors reads per-subsector seg counts and returns their total.
func (l *Level) readXNODSubSectors(s *stream) (int, error) {
	numSubSectors := s.u32()
	if !s.need(numSubSectors, 4) {
		return 0, s.err
	}

	l.SubSectors = make([]SubSector, numSubSectors)
	total := 0
	for i := range l.SubSectors {
		count := s.i32()
		if count < 0 {
			return 0, fmt.Errorf("%w: subsector %d has %d segs", ErrFormat, i, count)
		}
		l.SubSectors[i] = SubSector{FirstSeg: total, NumSegs: int(count)}
		total += int(count)
	}
	return total, nil
}

func (l *Level) readXNODSegs(s *stream, total int) error {
	numSegs := s.u32()
	if s.err != nil {
		return s.err
	}
	if int64(numSegs) != int64(total) {
		return fmt.Errorf("%w: incorrect number of segs: %d declared, subsectors hold %d", ErrFormat, numSegs, total)
	}
	if !s.need(numSegs, xnodSegSize) {
		return s.err
	}

	l.Segs = make([]Seg, numSegs)
	for i := range l.Segs {
		v1 := s.u32()
		v2 := s.u32()
		lineNum := s.u16()
		side := int(s.u8())
		if side > 1 {
			side = 1
		}

		seg, err := l.resolveSeg(i, int(v1), int(v2), int(lineNum), side)
		if err != nil {
			return err
		}
		line := &l.Lines[seg.Line]
		ref := line.V1
		if side == 1 {
			ref = line.V2
		}
		seg.Offset = l.Vertexes[seg.V1].Vec2().Sub(l.Vertexes[ref].Vec2()).Len()
		l.Segs[i] = seg
	}
	return nil
}

// readXNODNodes reads nodes whose children already carry LeafFlag. Leaf
// indices are taken as stored.
func (l *Level) readXNODNodes(s *stream) error {
	numNodes := s.u32()
	if !s.need(numNodes, xnodNodeSize) {
		return s.err
	}

	l.Nodes = make([]Node, numNodes)
	for i := range l.Nodes {
		n := &l.Nodes[i]
		n.X = float32(s.i16())
		n.Y = float32(s.i16())
		n.DX = float32(s.i16())
		n.DY = float32(s.i16())
		for side := range n.BBox {
			n.BBox[side] = BoundBox{
				Top:    float32(s.i16()),
				Bottom: float32(s.i16()),
				Left:   float32(s.i16()),
				Right:  float32(s.i16()),
			}
		}
		for side := range n.Children {
			n.Children[side] = ChildRef(int32(s.u32()))
		}
	}
	return s.err
}
