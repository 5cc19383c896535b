package wad

import "fmt"

// LumpNum addresses one directory entry: the archive index in the high byte
// and the lump index in the low 24 bits.
type LumpNum int32

// NoLump is returned when a lookup finds nothing.
const NoLump LumpNum = -1

const (
	lumpMask = 0xFFFFFF
	wadMask  = 0x7F000000
	wadShift = 24
)

func packLumpNum(wadIndex, lumpIndex int) LumpNum {
	return LumpNum(((wadIndex << wadShift) & wadMask) | (lumpIndex & lumpMask))
}

func (n LumpNum) archive() int {
	return int(n) >> wadShift
}

func (n LumpNum) lump() int {
	return int(n) & lumpMask
}

func (n LumpNum) String() string {
	if n == NoLump {
		return "none"
	}
	return fmt.Sprintf("%d:%d", n.archive(), n.lump())
}
