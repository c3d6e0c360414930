package tileset

// GID is a raw global tile ID as stored in map layer data. The four highest
// bits carry flip flags; the rest is the tile ID.
type GID uint32

// Flip holds the flip flags of a GID.
type Flip uint32

const (
	FlipHorizontal Flip = 0x80000000
	FlipVertical   Flip = 0x40000000
	FlipDiagonal   Flip = 0x20000000 // anti-diagonal on orthogonal maps
	RotateHex120   Flip = 0x10000000 // hexagonal maps only

	flipMask = FlipHorizontal | FlipVertical | FlipDiagonal | RotateHex120
)

// MakeGID packs a tile ID and flip flags into a GID.
func MakeGID(id int, f Flip) GID {
	return GID(uint32(id)&^uint32(flipMask) | uint32(f&flipMask))
}

// ID returns the global tile ID with flip flags cleared.
func (g GID) ID() int {
	return int(uint32(g) &^ uint32(flipMask))
}

// Flags returns the flip flags set on the GID.
func (g GID) Flags() Flip {
	return Flip(g) & flipMask
}

// Empty reports whether the GID refers to no tile.
func (g GID) Empty() bool {
	return g.ID() == 0
}

func (f Flip) Horizontal() bool { return f&FlipHorizontal != 0 }
func (f Flip) Vertical() bool   { return f&FlipVertical != 0 }
func (f Flip) Diagonal() bool   { return f&FlipDiagonal != 0 }
func (f Flip) Hex120() bool     { return f&RotateHex120 != 0 }

// Tile is a GID resolved against a Registry.
type Tile struct {
	GID     GID
	Tileset Descriptor
	Index   int // local index inside Tileset's image
	Flip    Flip
}
