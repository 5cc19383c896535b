package wad

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Level is the decoded geometry and BSP tree of one map. All cross-references
// are indices into its own slices. A Level is never modified after ReadLevel
// returns it; loading a map again builds a new one.
type Level struct {
	Name       string
	NodeFormat NodeFormat
	Things     []Thing
	Lines      []Line
	Sides      []Side
	Vertexes   []Vertex
	Segs       []Seg
	SubSectors []SubSector
	Nodes      []Node
	Sectors    []Sector
	Reject     Reject
	BlockMap   BlockMap
}

type Vertex struct {
	X, Y float32
}

// Vec2 returns the vertex as a vector.
func (v Vertex) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{v.X, v.Y}
}

// NoTexture marks a texture reference that has not been resolved.
const NoTexture = -1

// NoSector marks an absent sector reference.
const NoSector = -1

type Sector struct {
	FloorHeight        float32
	CeilingHeight      float32
	FloorTextureName   string
	CeilingTextureName string
	FloorTexture       int
	CeilingTexture     int
	LightLevel         int
	Special            int
	Tag                int
}

type Side struct {
	XOffset           float32
	YOffset           float32
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	UpperTexture      int
	LowerTexture      int
	MiddleTexture     int
	Sector            int
}

// Seg is a directed piece of a linedef bounding a subsector.
type Seg struct {
	V1, V2      int
	Line        int
	Side        int // 0 - same direction as the linedef, 1 - opposite
	Length      float32
	Offset      float32 // Distance along the linedef side to V1
	FrontSector int
	BackSector  int // NoSector if one-sided
}

// SubSector is a BSP leaf: NumSegs segs starting at FirstSeg.
type SubSector struct {
	FirstSeg int
	NumSegs  int
	Sector   int
}

type BoundBox struct {
	Top, Bottom, Left, Right float32
}

// ReadLevel decodes the level whose marker lump is marker. Either the whole
// level is returned or an error; nothing partial is kept.
func (s *Store) ReadLevel(marker LumpNum) (*Level, error) {
	if !s.Valid(marker, 0) {
		return nil, fmt.Errorf("level marker %v %w", marker, ErrNotFound)
	}
	name := s.Lump(marker, 0).Name.String()
	logger.Printf("Reading Level %v ...", name)

	lumps := make(map[MapLump]Lump, len(mapLumpNames))
	for m := MapLumpThings; m <= MapLumpBlockmap; m++ {
		lump, err := s.mapLump(marker, m)
		if err != nil {
			return nil, fmt.Errorf("level %v: %w", name, err)
		}
		lumps[m] = lump
	}

	level := &Level{Name: name}
	var err error
	if level.Sectors, err = readSectors(lumps[MapLumpSectors]); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	if level.Vertexes, err = readVertexes(lumps[MapLumpVertexes]); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	if level.Sides, err = readSides(lumps[MapLumpSidedefs], len(level.Sectors)); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	if level.Lines, err = readLines(lumps[MapLumpLinedefs], len(level.Vertexes), len(level.Sides)); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	if level.Things, err = readThings(lumps[MapLumpThings]); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	if err := level.readNodes(lumps[MapLumpSegs], lumps[MapLumpSubSectors], lumps[MapLumpNodes]); err != nil {
		return nil, fmt.Errorf("level %v: %w", name, err)
	}
	level.Reject = readReject(lumps[MapLumpReject], len(level.Sectors))
	level.BlockMap = readBlockMap(lumps[MapLumpBlockmap], len(level.Lines))

	logger.Printf("Read level %v: %v nodes, %v subsectors, %v segs (%v)",
		name, len(level.Nodes), len(level.SubSectors), len(level.Segs), level.NodeFormat)
	return level, nil
}

// mapLump resolves the lump at position m after marker and checks its name.
func (s *Store) mapLump(marker LumpNum, m MapLump) (Lump, error) {
	if !s.Valid(marker, int(m)) {
		return Lump{}, fmt.Errorf("%w: missing %v lump", ErrInvalidMap, m)
	}
	lump := s.Lump(marker, int(m))
	if lump.Name != mapLumpNames[m] {
		return Lump{}, fmt.Errorf("%w: expected %v lump, found %q", ErrInvalidMap, m, lump.Name.String())
	}
	return lump, nil
}

func checkIndex(kind string, i int, ref string, value, count int) error {
	if value < 0 || value >= count {
		return fmt.Errorf("%w: %v %d references %v %d of %d", ErrIndex, kind, i, ref, value, count)
	}
	return nil
}

func readSectors(lump Lump) ([]Sector, error) {
	logger.Println("Reading Sectors ...")

	binSectors, err := readRecords[binSector](lump)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	sectors := make([]Sector, len(binSectors))
	for i, s := range binSectors {
		sectors[i] = Sector{
			FloorHeight:        float32(s.FloorHeight),
			CeilingHeight:      float32(s.CeilingHeight),
			FloorTextureName:   s.FloorTexture.String(),
			CeilingTextureName: s.CeilingTexture.String(),
			FloorTexture:       NoTexture,
			CeilingTexture:     NoTexture,
			LightLevel:         int(s.LightLevel),
			Special:            int(s.Special),
			Tag:                int(s.Tag),
		}
	}
	logger.Printf("Read %v sectors", len(sectors))
	return sectors, nil
}

func readVertexes(lump Lump) ([]Vertex, error) {
	logger.Println("Reading Vertexes ...")

	binVertexes, err := readRecords[binVertex](lump)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	vertexes := make([]Vertex, len(binVertexes))
	for i, v := range binVertexes {
		vertexes[i] = Vertex{X: float32(v.X), Y: float32(v.Y)}
	}
	logger.Printf("Read %v vertexes", len(vertexes))
	return vertexes, nil
}

func readSides(lump Lump, numSectors int) ([]Side, error) {
	logger.Println("Reading Sides ...")

	binSides, err := readRecords[binSide](lump)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	sides := make([]Side, len(binSides))
	for i, s := range binSides {
		sides[i] = Side{
			XOffset:           float32(s.XOffset),
			YOffset:           float32(s.YOffset),
			UpperTextureName:  s.UpperTexture.String(),
			LowerTextureName:  s.LowerTexture.String(),
			MiddleTextureName: s.MiddleTexture.String(),
			UpperTexture:      NoTexture,
			LowerTexture:      NoTexture,
			MiddleTexture:     NoTexture,
			Sector:            int(s.SectorNum),
		}
		if err := checkIndex("side", i, "sector", sides[i].Sector, numSectors); err != nil {
			return nil, err
		}
	}
	logger.Printf("Read %v sides", len(sides))
	return sides, nil
}
