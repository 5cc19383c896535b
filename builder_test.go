package wad

import (
	"bytes"
	"encoding/binary"
	"log"
	"testing"
)

type testLump struct {
	name string
	data []byte
}

// buildWAD lays out a header, the lump data in order, then the directory.
func buildWAD(magic string, lumps ...testLump) []byte {
	var body bytes.Buffer
	infos := make([]binLumpInfo, len(lumps))
	for i, l := range lumps {
		infos[i] = binLumpInfo{
			Filepos: uint32(headerSize + body.Len()),
			Size:    uint32(len(l.data)),
			Name:    NewString8(l.name),
		}
		body.Write(l.data)
	}

	var out bytes.Buffer
	header := binHeader{NumLumps: uint32(len(lumps)), InfoTableOfs: uint32(headerSize + body.Len())}
	copy(header.Magic[:], magic)
	binary.Write(&out, binary.LittleEndian, header)
	out.Write(body.Bytes())
	binary.Write(&out, binary.LittleEndian, infos)
	return out.Bytes()
}

// encode writes records with the on-disk layout.
func encode(records any) []byte {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, records); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Two square rooms split at x=0. Sector 0 is the left room, sector 1 the
// right. Line 6 is the two-sided divider running up from (0,-64) to (0,64).
var (
	testVertexes = []binVertex{
		{-64, -64}, {64, -64}, {64, 64}, {-64, 64}, {0, -64}, {0, 64},
	}
	testSectors = []binSector{
		{FloorHeight: 0, CeilingHeight: 128, FloorTexture: NewString8("FLOOR4_8"), CeilingTexture: NewString8("CEIL3_5"), LightLevel: 160, Special: 0, Tag: 0},
		{FloorHeight: 8, CeilingHeight: 96, FloorTexture: NewString8("NUKAGE1"), CeilingTexture: NewString8("F_SKY1"), LightLevel: 255, Special: 7, Tag: 3},
	}
	testSides = []binSide{
		{SectorNum: 1, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 1, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 1, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 0, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 0, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 0, MiddleTexture: NewString8("STARTAN3")},
		{SectorNum: 1, XOffset: 16, YOffset: -8, UpperTexture: NewString8("-")},
		{SectorNum: 0},
	}
	testLines = []binLine{
		{VertexStart: 4, VertexEnd: 1, Flags: 1, Sides: [2]int16{0, -1}},
		{VertexStart: 1, VertexEnd: 2, Flags: 1, Sides: [2]int16{1, -1}},
		{VertexStart: 2, VertexEnd: 5, Flags: 1, Sides: [2]int16{2, -1}},
		{VertexStart: 5, VertexEnd: 3, Flags: 1, Sides: [2]int16{3, -1}},
		{VertexStart: 3, VertexEnd: 0, Flags: 1, Sides: [2]int16{4, -1}},
		{VertexStart: 0, VertexEnd: 4, Flags: 1, Sides: [2]int16{5, -1}},
		{VertexStart: 4, VertexEnd: 5, Flags: 4, Special: 1, Tag: 3, Sides: [2]int16{6, 7}},
	}
	testThings = []binThing{
		{X: 32, Y: 0, Angle: 90, Type: 1, Options: 7},
		{X: -32, Y: 16, Angle: 180, Type: 3004, Options: 0xc},
	}
	// v1, v2, line, side
	testSegs = [][4]int{
		{4, 1, 0, 0}, {1, 2, 1, 0}, {2, 5, 2, 0}, {4, 5, 6, 0},
		{5, 3, 3, 0}, {3, 0, 4, 0}, {0, 4, 5, 0}, {5, 4, 6, 1},
	}
	testSubSectorCounts = []int{4, 4}
	testNode            = binNode{
		X: 0, Y: -64, DX: 0, DY: 128,
		BBox: [2]binBBox{
			{Top: 64, Bottom: -64, Left: 0, Right: 64},
			{Top: 64, Bottom: -64, Left: -64, Right: 0},
		},
		Children: [2]uint16{0x8000, 0x8001},
	}
)

func standardSegs() []byte {
	segs := make([]binSeg, len(testSegs))
	for i, s := range testSegs {
		segs[i] = binSeg{V1: int16(s[0]), V2: int16(s[1]), LineNum: int16(s[2]), Side: int16(s[3])}
	}
	return encode(segs)
}

func standardSubSectors() []byte {
	var subsectors []binSubSector
	first := 0
	for _, n := range testSubSectorCounts {
		subsectors = append(subsectors, binSubSector{NumSegs: int16(n), FirstSeg: int16(first)})
		first += n
	}
	return encode(subsectors)
}

// xnodWriter builds an extended node stream field by field.
type xnodWriter struct {
	bytes.Buffer
}

func (w *xnodWriter) u8(v uint8)   { w.WriteByte(v) }
func (w *xnodWriter) u16(v uint16) { binary.Write(w, binary.LittleEndian, v) }
func (w *xnodWriter) i16(v int16)  { binary.Write(w, binary.LittleEndian, v) }
func (w *xnodWriter) u32(v uint32) { binary.Write(w, binary.LittleEndian, v) }
func (w *xnodWriter) i32(v int32)  { binary.Write(w, binary.LittleEndian, v) }

type xnodOptions struct {
	orgVerts uint32
	newVerts [][2]int32 // 16.16 fixed
	segCount int        // -1 for the correct count
	segs     [][4]int   // testSegs when nil
}

// xnodStream encodes the test map's tree as an extended node stream.
func xnodStream(opts xnodOptions) []byte {
	var w xnodWriter
	w.WriteString("XNOD")
	w.u32(opts.orgVerts)
	w.u32(uint32(len(opts.newVerts)))
	for _, v := range opts.newVerts {
		w.i32(v[0])
		w.i32(v[1])
	}
	w.u32(uint32(len(testSubSectorCounts)))
	for _, n := range testSubSectorCounts {
		w.i32(int32(n))
	}
	segs := opts.segs
	if segs == nil {
		segs = testSegs
	}
	if opts.segCount < 0 {
		w.u32(uint32(len(segs)))
	} else {
		w.u32(uint32(opts.segCount))
	}
	for _, s := range segs {
		w.u32(uint32(s[0]))
		w.u32(uint32(s[1]))
		w.u16(uint16(s[2]))
		w.u8(uint8(s[3]))
	}
	w.u32(1)
	n := testNode
	for _, v := range []int16{n.X, n.Y, n.DX, n.DY} {
		w.i16(v)
	}
	for _, b := range n.BBox {
		for _, v := range []int16{b.Top, b.Bottom, b.Left, b.Right} {
			w.i16(v)
		}
	}
	w.u32(0x80000000)
	w.u32(0x80000001)
	return w.Bytes()
}

func defaultXNOD() xnodOptions {
	return xnodOptions{orgVerts: uint32(len(testVertexes)), segCount: -1}
}

// levelLumps returns the marker and the ten level lumps. nodes replaces the
// NODES lump when non-nil, in which case SEGS and SSECTORS are left empty.
func levelLumps(marker string, nodes []byte) []testLump {
	segs, subsectors := standardSegs(), standardSubSectors()
	if nodes == nil {
		nodes = encode([]binNode{testNode})
	} else {
		segs, subsectors = nil, nil
	}
	return []testLump{
		{marker, nil},
		{"THINGS", encode(testThings)},
		{"LINEDEFS", encode(testLines)},
		{"SIDEDEFS", encode(testSides)},
		{"VERTEXES", encode(testVertexes)},
		{"SEGS", segs},
		{"SSECTORS", subsectors},
		{"NODES", nodes},
		{"SECTORS", encode(testSectors)},
		{"REJECT", []byte{0x02}}, // sector 0 cannot see sector 1
		{"BLOCKMAP", testBlockMap()},
	}
}

// testBlockMap is one row of two blocks, lines 0,1,2,6 and 3,4,5,6.
func testBlockMap() []byte {
	words := []uint16{
		uint16(0xffc0), uint16(0xffc0), 2, 1, // origin -64,-64, 2 columns, 1 row
		6, 12, // offsets in words
		0, 0, 1, 2, 6, 0xffff,
		0, 3, 4, 5, 6, 0xffff,
	}
	return encode(words)
}

// captureLog routes package logging into a buffer for the test's duration.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	t.Cleanup(func() {
		SetLogger(log.New(discard{}, "", 0))
	})
	return &buf
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func mustLoadLevel(t *testing.T, lumps []testLump) *Level {
	t.Helper()
	s := NewStore()
	if _, err := s.LoadArchiveBytes("test.wad", buildWAD("PWAD", lumps...)); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	level, err := s.ReadLevel(packLumpNum(0, 0))
	if err != nil {
		t.Fatalf("unexpected level error: %v", err)
	}
	return level
}
