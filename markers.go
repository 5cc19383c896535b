package wad

import "fmt"

// MapLump is the position of a level lump relative to its marker.
type MapLump int

const (
	MapLumpLabel MapLump = iota
	MapLumpThings
	MapLumpLinedefs
	MapLumpSidedefs
	MapLumpVertexes
	MapLumpSegs
	MapLumpSubSectors
	MapLumpNodes
	MapLumpSectors
	MapLumpReject
	MapLumpBlockmap
)

var mapLumpNames = [...]String8{
	MapLumpThings:     NewString8("THINGS"),
	MapLumpLinedefs:   NewString8("LINEDEFS"),
	MapLumpSidedefs:   NewString8("SIDEDEFS"),
	MapLumpVertexes:   NewString8("VERTEXES"),
	MapLumpSegs:       NewString8("SEGS"),
	MapLumpSubSectors: NewString8("SSECTORS"),
	MapLumpNodes:      NewString8("NODES"),
	MapLumpSectors:    NewString8("SECTORS"),
	MapLumpReject:     NewString8("REJECT"),
	MapLumpBlockmap:   NewString8("BLOCKMAP"),
}

func (m MapLump) String() string {
	if m <= MapLumpLabel || int(m) >= len(mapLumpNames) {
		return fmt.Sprintf("MapLump(%d)", int(m))
	}
	return mapLumpNames[m].String()
}

// FindLevelMarkers returns the marker lump of every level in every archive,
// in load order. A marker is any lump followed by exactly the ten level
// lumps in their fixed order.
func (s *Store) FindLevelMarkers() ([]LumpNum, error) {
	var markers []LumpNum
	for i, a := range s.archives {
		infos := a.lumpInfos
		for p := 0; p+int(MapLumpBlockmap) < len(infos); p++ {
			if !isLevelAt(infos, p) {
				continue
			}
			if len(markers) >= s.cfg.maxMarkers {
				return nil, fmt.Errorf("%w: more than %d level markers", ErrCapacity, s.cfg.maxMarkers)
			}
			markers = append(markers, packLumpNum(i, p))
		}
	}
	logger.Printf("Found %v level markers", len(markers))
	return markers, nil
}

func isLevelAt(infos []LumpInfo, p int) bool {
	for m := MapLumpThings; m <= MapLumpBlockmap; m++ {
		if infos[p+int(m)].Name != mapLumpNames[m] {
			return false
		}
	}
	return true
}

// LevelNames returns the marker lump names, e.g. "E1M1", in the order given.
func (s *Store) LevelNames(markers []LumpNum) []string {
	result := make([]string, 0, len(markers))
	for _, m := range markers {
		result = append(result, s.Lump(m, 0).Name.String())
	}
	return result
}

// FindLevel returns the marker of the named level, preferring later archives.
func (s *Store) FindLevel(name string) (LumpNum, error) {
	markers, err := s.FindLevelMarkers()
	if err != nil {
		return NoLump, err
	}
	if len(name) > len(String8{}) {
		return NoLump, fmt.Errorf("level %v %w", name, ErrNotFound)
	}
	id := NewString8(name)
	for i := len(markers) - 1; i >= 0; i-- {
		if s.Lump(markers[i], 0).Name == id {
			return markers[i], nil
		}
	}
	return NoLump, fmt.Errorf("level %v %w", name, ErrNotFound)
}
