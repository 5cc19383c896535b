package wad

type Thing struct {
	X, Y    float32
	Angle   float64 // Radians
	Type    int
	Options ThingOptions
}

type ThingOptions int

const (
	ThingSkill1and2      ThingOptions = 0x1
	ThingSkill3          ThingOptions = 0x2
	ThingSkill4and5      ThingOptions = 0x4
	ThingAmbush          ThingOptions = 0x8
	ThingMultiplayerOnly ThingOptions = 0x10
)

// Has reports whether all bits of o are set.
func (t ThingOptions) Has(o ThingOptions) bool {
	return t&o == o
}

func readThings(lump Lump) ([]Thing, error) {
	logger.Println("Reading Things ...")

	binThings, err := readRecords[binThing](lump)
	if err != nil {
		return nil, err
	}

	// Translate to canonical
	things := make([]Thing, len(binThings))
	for i, t := range binThings {
		things[i] = Thing{
			X:       float32(t.X),
			Y:       float32(t.Y),
			Angle:   degreesToRadians(t.Angle),
			Type:    int(t.Type),
			Options: ThingOptions(t.Options),
		}
	}
	logger.Printf("Read %v things", len(things))
	return things, nil
}
