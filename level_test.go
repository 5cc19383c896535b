package wad

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRecordSizes(t *testing.T) {
	tests := []struct {
		name   string
		record any
		size   int
	}{
		{"header", binHeader{}, 12},
		{"lump info", binLumpInfo{}, 16},
		{"thing", binThing{}, 10},
		{"linedef", binLine{}, 14},
		{"sidedef", binSide{}, 30},
		{"vertex", binVertex{}, 4},
		{"seg", binSeg{}, 12},
		{"subsector", binSubSector{}, 4},
		{"node", binNode{}, 28},
		{"sector", binSector{}, 26},
	}
	for _, tt := range tests {
		if got := binary.Size(tt.record); got != tt.size {
			t.Errorf("%s record is %d bytes, want %d", tt.name, got, tt.size)
		}
	}
}

func TestReadLevel(t *testing.T) {
	level := mustLoadLevel(t, levelLumps("E1M1", nil))

	if level.Name != "E1M1" || level.NodeFormat != NodeFormatStandard {
		t.Errorf("level = %q %v", level.Name, level.NodeFormat)
	}
	if len(level.Vertexes) != 6 || len(level.Lines) != 7 || len(level.Sides) != 8 || len(level.Sectors) != 2 {
		t.Fatalf("counts: %d vertexes, %d lines, %d sides, %d sectors",
			len(level.Vertexes), len(level.Lines), len(level.Sides), len(level.Sectors))
	}
	if v := level.Vertexes[1]; v != (Vertex{64, -64}) {
		t.Errorf("vertex 1 = %v", v)
	}

	sector := level.Sectors[1]
	if sector.FloorHeight != 8 || sector.CeilingHeight != 96 || sector.FloorTextureName != "NUKAGE1" ||
		sector.CeilingTextureName != "F_SKY1" || sector.LightLevel != 255 || sector.Special != 7 || sector.Tag != 3 {
		t.Errorf("sector 1 = %+v", sector)
	}
	if sector.FloorTexture != NoTexture || sector.CeilingTexture != NoTexture {
		t.Errorf("sector textures resolved to %d, %d", sector.FloorTexture, sector.CeilingTexture)
	}

	side := level.Sides[6]
	if side.XOffset != 16 || side.YOffset != -8 || side.UpperTextureName != "-" || side.Sector != 1 ||
		side.MiddleTexture != NoTexture {
		t.Errorf("side 6 = %+v", side)
	}

	line := level.Lines[0]
	if line.SideNum != [2]int{0, NoSide} || line.TwoSided() {
		t.Errorf("line 0 = %+v", line)
	}
	divider := level.Lines[6]
	if divider.V1 != 4 || divider.V2 != 5 || !divider.TwoSided() || divider.Special != 1 || divider.Tag != 3 {
		t.Errorf("line 6 = %+v", divider)
	}
	if divider.Side(0) != 6 || divider.Side(1) != 7 {
		t.Errorf("line 6 sides = %d, %d", divider.Side(0), divider.Side(1))
	}

	if len(level.Things) != 2 {
		t.Fatalf("things = %d, want 2", len(level.Things))
	}
	thing := level.Things[1]
	if thing.X != -32 || thing.Y != 16 || thing.Type != 3004 || math.Abs(thing.Angle-math.Pi) > 1e-9 {
		t.Errorf("thing 1 = %+v", thing)
	}
	if !thing.Options.Has(ThingSkill4and5|ThingAmbush) || thing.Options.Has(ThingSkill3) {
		t.Errorf("thing 1 options = %#x", int(thing.Options))
	}
}

func TestReadLevelRejectAndBlockMap(t *testing.T) {
	level := mustLoadLevel(t, levelLumps("E1M1", nil))

	if !level.Reject.Rejects(0, 1) || level.Reject.Rejects(1, 0) || level.Reject.Rejects(0, 0) {
		t.Errorf("reject table = %+v", level.Reject)
	}
	if level.Reject.Rejects(5, 0) {
		t.Error("out of range sector rejected")
	}

	bm := level.BlockMap
	if bm.OriginX != -64 || bm.OriginY != -64 || bm.NumColumns != 2 || bm.NumRows != 1 {
		t.Fatalf("block map = %+v", bm)
	}
	want := [][]int{{0, 1, 2, 6}, {3, 4, 5, 6}}
	for x, lines := range want {
		block := bm.Block(x, 0)
		if block == nil || len(block.Lines) != len(lines) {
			t.Fatalf("block %d = %+v, want %v", x, block, lines)
		}
		for i := range lines {
			if block.Lines[i] != lines[i] {
				t.Errorf("block %d = %v, want %v", x, block.Lines, lines)
				break
			}
		}
	}
	if bm.Block(2, 0) != nil || bm.Block(0, -1) != nil {
		t.Error("Block outside the grid is not nil")
	}
}

func TestReadLevelLenientTables(t *testing.T) {
	log := captureLog(t)

	lumps := levelLumps("E1M1", nil)
	// Empty REJECT, BLOCKMAP too short for its header
	lumps[9].data = nil
	lumps[10].data = encode([]int16{0, 0})
	level := mustLoadLevel(t, lumps)

	if level.Reject.Rejects(0, 1) {
		t.Error("empty reject table rejects")
	}
	if level.BlockMap.NumColumns != 0 || level.BlockMap.Block(0, 0) != nil {
		t.Errorf("block map = %+v, want empty", level.BlockMap)
	}
	if !strings.Contains(log.String(), "Warning: block map") {
		t.Errorf("log = %q, want block map warning", log.String())
	}
}

func TestReadLevelInvalidMap(t *testing.T) {
	tests := map[string]func([]testLump) []testLump{
		"renamed lump": func(l []testLump) []testLump {
			l[8].name = "SECTOR"
			return l
		},
		"missing lumps": func(l []testLump) []testLump { return l[:9] },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			s.LoadArchiveBytes("a.wad", buildWAD("PWAD", mutate(levelLumps("E1M1", nil))...))
			level, err := s.ReadLevel(packLumpNum(0, 0))
			if !errors.Is(err, ErrInvalidMap) || !errors.Is(err, ErrFormat) {
				t.Fatalf("err = %v, want ErrInvalidMap", err)
			}
			if level != nil {
				t.Fatal("partial level returned")
			}
		})
	}

	if _, err := NewStore().ReadLevel(packLumpNum(0, 0)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReadLevelBadReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]testLump)
		want   error
	}{
		{"side sector", func(l []testLump) {
			sides := append([]binSide(nil), testSides...)
			sides[3].SectorNum = 2
			l[3].data = encode(sides)
		}, ErrIndex},
		{"line vertex", func(l []testLump) {
			lines := append([]binLine(nil), testLines...)
			lines[2].VertexEnd = 6
			l[2].data = encode(lines)
		}, ErrIndex},
		{"line side", func(l []testLump) {
			lines := append([]binLine(nil), testLines...)
			lines[6].Sides[1] = 8
			l[2].data = encode(lines)
		}, ErrIndex},
		{"seg vertex", func(l []testLump) {
			segs := encode([]binSeg{{V1: 0, V2: 9}})
			l[5].data = segs
		}, ErrIndex},
		{"seg side", func(l []testLump) {
			segs := encode([]binSeg{{V1: 0, V2: 4, LineNum: 5, Side: 2}})
			l[5].data = segs
		}, ErrFormat},
		{"seg on missing side", func(l []testLump) {
			segs := encode([]binSeg{{V1: 4, V2: 0, LineNum: 5, Side: 1}})
			l[5].data = segs
		}, ErrIndex},
		{"subsector past segs", func(l []testLump) {
			l[6].data = encode([]binSubSector{{NumSegs: 4, FirstSeg: 6}})
		}, ErrIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lumps := levelLumps("E1M1", nil)
			tt.mutate(lumps)
			s := NewStore()
			s.LoadArchiveBytes("a.wad", buildWAD("PWAD", lumps...))
			if _, err := s.ReadLevel(packLumpNum(0, 0)); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFixedToFloat(t *testing.T) {
	tests := []struct {
		in   int32
		want float32
	}{
		{0, 0},
		{1 << 16, 1},
		{-3 << 15, -1.5},
		{32 << 16, 32},
	}
	for _, tt := range tests {
		if got := fixedToFloat(tt.in); got != tt.want {
			t.Errorf("fixedToFloat(%#x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
