// Package wad provides access to Doom's data archives also known as WAD files,
// and decodes level geometry and BSP trees from them for point-location queries.
// The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html
//
// Both the vanilla node format and the ZDoom extended ("XNOD") format are
// decoded into the same Node, Seg and SubSector arrays.
package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Store holds every loaded archive. Archives loaded later shadow lumps of the
// same name in archives loaded earlier.
type Store struct {
	cfg      config
	archives []*Archive
}

// Archive is one loaded WAD file: its bytes and its lump directory.
type Archive struct {
	Name      string
	Magic     string
	header    Header
	data      []byte
	lumpInfos []LumpInfo
	mapped    bool
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     uint32
	InfoTableOfs uint32
}

type Header struct {
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos uint32
	Size    uint32
	Name    String8
}

const (
	headerSize   = 12
	lumpInfoSize = 16
)

type LumpInfo struct {
	Name    String8
	Filepos int
	Size    int
}

// Lump is the resolved content of one directory entry. Data aliases the
// archive's bytes and must not be modified.
type Lump struct {
	Name String8
	Data []byte
}

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// NewString8 pads or truncates name to a lump name. No case folding is done.
func NewString8(name string) String8 {
	var s String8
	copy(s[:], name)
	return s
}

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

// Display decodes the name as code page 437, so names carrying high bytes
// still print as valid UTF-8.
func (s String8) Display() string {
	raw := []byte(s.String())
	out, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		return fmt.Sprintf("%q", raw)
	}
	return string(out)
}

// NewStore creates an empty archive store.
func NewStore(opts ...Option) *Store {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// LumpNum keeps 7 bits of archive index
	cfg.maxArchives = min(cfg.maxArchives, DefaultMaxArchives)
	return &Store{cfg: cfg}
}

// LoadArchive reads a WAD file into memory and appends it to the store,
// returning its archive index. Zstandard-compressed files are decompressed
// first. On failure the store is unchanged.
func (s *Store) LoadArchive(path string) (int, error) {
	logger.Printf("Loading archive %v ...", path)

	if len(s.archives) >= s.cfg.maxArchives {
		return -1, fmt.Errorf("%v: %w: %d archives already loaded", path, ErrCapacity, len(s.archives))
	}

	data, mapped, err := readArchiveFile(path, s.cfg.useMmap)
	if err != nil {
		return -1, err
	}

	if isZstd(data) {
		plain, err := decompress(data, s.cfg.maxArchiveSize)
		if mapped {
			release(path, data)
			mapped = false
		}
		if err != nil {
			return -1, fmt.Errorf("%v: %w", path, err)
		}
		data = plain
	}

	archive, err := parseArchive(path, data)
	if err != nil {
		if mapped {
			release(path, data)
		}
		return -1, err
	}
	archive.mapped = mapped
	return s.add(archive), nil
}

// LoadArchiveBytes parses data as a WAD and appends it to the store. The store
// keeps data for its lifetime.
func (s *Store) LoadArchiveBytes(name string, data []byte) (int, error) {
	if len(s.archives) >= s.cfg.maxArchives {
		return -1, fmt.Errorf("%v: %w: %d archives already loaded", name, ErrCapacity, len(s.archives))
	}
	archive, err := parseArchive(name, data)
	if err != nil {
		return -1, err
	}
	return s.add(archive), nil
}

// release unmaps data after a failed load. The load error takes precedence,
// so an unmap failure is only logged.
func release(path string, data []byte) {
	if err := releaseArchiveFile(data); err != nil {
		warnf("%v: unmap: %v", path, err)
	}
}

func (s *Store) add(a *Archive) int {
	s.archives = append(s.archives, a)
	logger.Printf("Loaded %v: %v with %v lumps", a.Name, a.Magic, len(a.lumpInfos))
	return len(s.archives) - 1
}

// Close releases memory mapped archives. The store must not be used afterwards.
func (s *Store) Close() error {
	var firstErr error
	for _, a := range s.archives {
		if a.mapped {
			if err := releaseArchiveFile(a.data); err != nil && firstErr == nil {
				firstErr = err
			}
			a.mapped = false
		}
		a.data = nil
	}
	s.archives = nil
	return firstErr
}

func parseArchive(name string, data []byte) (*Archive, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%v: %w: file too short for header (%d bytes)", name, ErrFormat, len(data))
	}

	// Read header
	var binHeader binHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &binHeader); err != nil {
		return nil, err
	}
	magic := string(binHeader.Magic[:])
	if magic != "IWAD" && magic != "PWAD" {
		return nil, fmt.Errorf("%v: %w: bad magic: %q", name, ErrFormat, binHeader.Magic[:])
	}

	if binHeader.NumLumps > lumpMask {
		return nil, fmt.Errorf("%v: %w: %d lumps", name, ErrFormat, binHeader.NumLumps)
	}
	end := int64(binHeader.InfoTableOfs) + int64(binHeader.NumLumps)*lumpInfoSize
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%v: %w: directory ends at %d, file is %d bytes", name, ErrFormat, end, len(data))
	}

	archive := &Archive{
		Name:   name,
		Magic:  magic,
		header: Header{int(binHeader.NumLumps), int(binHeader.InfoTableOfs)},
		data:   data,
	}

	// Read info tables
	binInfos := make([]binLumpInfo, archive.header.NumLumps)
	dir := bytes.NewReader(data[archive.header.InfoTableOfs:end])
	if err := binary.Read(dir, binary.LittleEndian, binInfos); err != nil {
		return nil, err
	}
	archive.lumpInfos = make([]LumpInfo, len(binInfos))
	for i, bi := range binInfos {
		if int64(bi.Filepos)+int64(bi.Size) > int64(len(data)) {
			return nil, fmt.Errorf("%v: %w: lump %d (%v) extends past end of file", name, ErrFormat, i, bi.Name)
		}
		archive.lumpInfos[i] = LumpInfo{Name: bi.Name, Filepos: int(bi.Filepos), Size: int(bi.Size)}
	}
	return archive, nil
}

// NumArchives returns the number of loaded archives.
func (s *Store) NumArchives() int {
	return len(s.archives)
}

// Archive returns the archive at index i.
func (s *Store) Archive(i int) *Archive {
	return s.archives[i]
}

// LumpInfos returns the archive's directory in file order.
func (a *Archive) LumpInfos() []LumpInfo {
	return a.lumpInfos
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header {
	return a.header
}

// FindLumpByName returns the lump with the given name, searching the most
// recently loaded archive first.
func (s *Store) FindLumpByName(name string) (LumpNum, bool) {
	if len(name) > len(String8{}) {
		return NoLump, false
	}
	id := NewString8(name)
	for i := len(s.archives) - 1; i >= 0; i-- {
		for p, li := range s.archives[i].lumpInfos {
			if li.Name == id {
				return packLumpNum(i, p), true
			}
		}
	}
	return NoLump, false
}

// LumpByName finds and resolves a lump in one call.
func (s *Store) LumpByName(name string) (Lump, error) {
	num, ok := s.FindLumpByName(name)
	if !ok {
		return Lump{}, fmt.Errorf("%v lump %w", name, ErrNotFound)
	}
	return s.Lump(num, 0), nil
}

// Lump resolves the lump offset entries after num. An archive or lump index
// outside the store is a caller bug and panics; use Valid to check first.
func (s *Store) Lump(num LumpNum, offset int) Lump {
	wadIndex := num.archive()
	lumpIndex := num.lump() + offset
	if wadIndex < 0 || wadIndex >= len(s.archives) {
		panic(fmt.Sprintf("wad: lump number %#x: archive index out of range", int32(num)))
	}
	a := s.archives[wadIndex]
	if lumpIndex < 0 || lumpIndex >= len(a.lumpInfos) {
		panic(fmt.Sprintf("wad: lump number %#x+%d: lump index out of range", int32(num), offset))
	}
	li := a.lumpInfos[lumpIndex]
	return Lump{Name: li.Name, Data: a.data[li.Filepos : li.Filepos+li.Size]}
}

// Valid reports whether num+offset names a lump in the store.
func (s *Store) Valid(num LumpNum, offset int) bool {
	if num.archive() < 0 || num.archive() >= len(s.archives) {
		return false
	}
	lumpIndex := num.lump() + offset
	return lumpIndex >= 0 && lumpIndex < len(s.archives[num.archive()].lumpInfos)
}
