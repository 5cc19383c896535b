package wad

// Line is a linedef: a wall between two vertexes with up to two sides.
type Line struct {
	V1, V2  int // Vertex indices
	Flags   LineFlags
	Special int
	Tag     int
	SideNum [2]int // Side indices, NoSide if absent
}

// NoSide marks an absent side in Line.SideNum.
const NoSide = -1

type LineFlags int

const (
	LineBlocking      LineFlags = 0x1
	LineBlockMonsters LineFlags = 0x2
	LineTwoSided      LineFlags = 0x4
	LineUpperUnpegged LineFlags = 0x8
	LineLowerUnpegged LineFlags = 0x10
	LineSecret        LineFlags = 0x20
	LineSoundBlock    LineFlags = 0x40
	LineDontDraw      LineFlags = 0x80
	LineMapped        LineFlags = 0x100
)

// Has reports whether all bits of f are set.
func (l LineFlags) Has(f LineFlags) bool {
	return l&f == f
}

// TwoSided reports whether the line is flagged as having a back side.
func (l *Line) TwoSided() bool {
	return l.Flags.Has(LineTwoSided)
}

// Side returns the side index for seg direction side (0 front, 1 back).
func (l *Line) Side(side int) int {
	return l.SideNum[side&1]
}

func readLines(lump Lump, numVertexes, numSides int) ([]Line, error) {
	logger.Println("Reading Lines ...")

	binLines, err := readRecords[binLine](lump)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	lines := make([]Line, len(binLines))
	for i, line := range binLines {
		lines[i] = Line{
			V1:      int(line.VertexStart),
			V2:      int(line.VertexEnd),
			Flags:   LineFlags(uint16(line.Flags)),
			Special: int(line.Special),
			Tag:     int(line.Tag),
			SideNum: [2]int{int(line.Sides[0]), int(line.Sides[1])},
		}
		if err := checkIndex("line", i, "vertex", lines[i].V1, numVertexes); err != nil {
			return nil, err
		}
		if err := checkIndex("line", i, "vertex", lines[i].V2, numVertexes); err != nil {
			return nil, err
		}
		for _, side := range lines[i].SideNum {
			if side == NoSide {
				continue
			}
			if err := checkIndex("line", i, "side", side, numSides); err != nil {
				return nil, err
			}
		}
	}

	logger.Printf("Read %v lines", len(lines))
	return lines, nil
}
