package wad

import (
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"
)

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Special        int16
	Tag            int16
}

type binVertex struct {
	X, Y int16
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     int16
}

type binLine struct {
	VertexStart, VertexEnd int16
	Flags                  int16
	Special                int16
	Tag                    int16
	Sides                  [2]int16
}

type binSeg struct {
	V1      int16
	V2      int16
	Angle   int16 // Full circle is -32768 to 32767.
	LineNum int16
	Side    int16 // 0 - same as linedef, 1 - opposite to linedef
	Offset  int16 // Distance along line to start of segment
}

type binSubSector struct {
	NumSegs  int16
	FirstSeg int16
}

type binBBox struct {
	Top    int16
	Bottom int16
	Left   int16
	Right  int16
}

type binNode struct {
	X, Y     int16
	DX, DY   int16
	BBox     [2]binBBox
	Children [2]uint16
}

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

// readRecords reinterprets a lump as an array of fixed-size records. Trailing
// bytes that do not fill a whole record are ignored.
func readRecords[T any](lump Lump) ([]T, error) {
	var zero T
	count := len(lump.Data) / binary.Size(zero)
	records := make([]T, count)
	if err := binary.Read(bytes.NewReader(lump.Data), binary.LittleEndian, records); err != nil {
		return nil, err
	}
	return records, nil
}

const fracUnit = 1 << 16

// fixedToFloat converts a 16.16 fixed point value.
func fixedToFloat[T constraints.Integer](n T) float32 {
	return float32(float64(n) / fracUnit)
}

// degreesToRadians
func degreesToRadians[T constraints.Integer | constraints.Float](n T) float64 {
	return float64(n) * (math.Pi / 180)
}

func (b binBBox) toBoundBox() BoundBox {
	return BoundBox{
		Top:    float32(b.Top),
		Bottom: float32(b.Bottom),
		Left:   float32(b.Left),
		Right:  float32(b.Right),
	}
}
