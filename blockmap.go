package wad

import (
	"bytes"
	"encoding/binary"
)

// Reject is the sector-to-sector visibility table. A set bit means a monster
// in the first sector can never see the second.
type Reject struct {
	NumSectors int
	bits       []byte
}

// Rejects reports whether sight from sector a to sector b is rejected.
// Tables that are missing or too short reject nothing.
func (r Reject) Rejects(a, b int) bool {
	if a < 0 || b < 0 || a >= r.NumSectors || b >= r.NumSectors {
		return false
	}
	cell := a*r.NumSectors + b
	return r.bits[cell/8]&(1<<(cell%8)) != 0
}

func readReject(lump Lump, numSectors int) Reject {
	logger.Println("Reading Reject ...")

	need := (numSectors*numSectors + 7) / 8
	if len(lump.Data) < need {
		if len(lump.Data) > 0 {
			warnf("reject table is %d bytes, %d sectors need %d", len(lump.Data), numSectors, need)
		}
		return Reject{}
	}
	logger.Printf("Read Reject table: %v sectors", numSectors)
	return Reject{NumSectors: numSectors, bits: bytes.Clone(lump.Data[:need])}
}

// BlockMap is level data created from axis aligned bounding box of the map, a
// rectangular array of 128 unit blocks listing the lines that cross them.
type BlockMap struct {
	OriginX, OriginY    float32
	NumColumns, NumRows int
	Blocks              []Block
}

type Block struct {
	Lines []int
}

const blockMapHeaderSize = 8

// Block returns a pointer to the specified block from the block map, or nil
// outside the grid.
func (b *BlockMap) Block(x, y int) *Block {
	if x < 0 || y < 0 || x >= b.NumColumns || y >= b.NumRows {
		return nil
	}
	return &b.Blocks[y*b.NumColumns+x]
}

// readBlockMap decodes the BLOCKMAP lump. A malformed lump is logged and
// yields an empty block map rather than failing the level.
func readBlockMap(lump Lump, numLines int) BlockMap {
	logger.Println("Reading Block Map ...")

	data := lump.Data
	if len(data) < blockMapHeaderSize {
		warnf("block map is %d bytes", len(data))
		return BlockMap{}
	}
	le := binary.LittleEndian
	columns := int(int16(le.Uint16(data[4:])))
	rows := int(int16(le.Uint16(data[6:])))
	if columns < 0 || rows < 0 || blockMapHeaderSize+2*columns*rows > len(data) {
		warnf("block map %dx%d does not fit in %d bytes", columns, rows, len(data))
		return BlockMap{}
	}

	blockMap := BlockMap{
		OriginX:    float32(int16(le.Uint16(data[0:]))),
		OriginY:    float32(int16(le.Uint16(data[2:]))),
		NumColumns: columns,
		NumRows:    rows,
		Blocks:     make([]Block, columns*rows),
	}

	// Offsets are counts of int16s from the start of the lump
	for i := range blockMap.Blocks {
		pos := 2 * int(le.Uint16(data[blockMapHeaderSize+2*i:]))
		lines, ok := readBlockList(data, pos, numLines)
		if !ok {
			warnf("block %d list at %d is malformed", i, pos)
			return BlockMap{}
		}
		blockMap.Blocks[i].Lines = lines
	}
	logger.Printf("Read %v blocks", len(blockMap.Blocks))
	return blockMap
}

func readBlockList(data []byte, pos, numLines int) ([]int, bool) {
	var lines []int
	for first := true; ; first = false {
		if pos+2 > len(data) {
			return nil, false
		}
		num := binary.LittleEndian.Uint16(data[pos:])
		pos += 2
		if num == 0xffff {
			return lines, true
		}
		// Lists start with a zero entry
		if first && num == 0 {
			continue
		}
		if int(num) >= numLines {
			return nil, false
		}
		lines = append(lines, int(num))
	}
}
