package tileset

import (
	"fmt"
	"image"
)

// Descriptor represents a tileset reference inside a tile map.
//
// It links a tileset image (source) to the first global tile ID (firstgid)
// assigned to it, so a map can tell which tileset a given tile ID belongs to.
// A Descriptor holds metadata only. It never opens or decodes its source.
//
// A Descriptor is immutable once built and safe to share between goroutines.
type Descriptor struct {
	source     string // Path to the tileset image, as written in the map
	firstGID   int    // First global tile ID for this tileset
	tileWidth  int    // Width of each tile in pixels
	tileHeight int    // Height of each tile in pixels
	tileCount  int    // Number of tiles in this tileset
	columns    int    // Tile columns in the tileset image
}

// New creates a Descriptor from the given metadata.
//
// No validation is performed: zero or negative values are stored as given so
// malformed map data never aborts loading. Use NewValidated or Validate when
// the caller wants to reject such values.
func New(source string, firstGID, tileWidth, tileHeight, tileCount, columns int) Descriptor {
	return Descriptor{
		source:     source,
		firstGID:   firstGID,
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		tileCount:  tileCount,
		columns:    columns,
	}
}

// ContainsTile reports whether the global tile ID falls in
// [FirstGID, FirstGID+TileCount).
func (d Descriptor) ContainsTile(id int) bool {
	if d.tileCount <= 0 || id < d.firstGID {
		return false
	}
	// The distance is taken in uint so it cannot wrap for any int pair.
	return uint(id)-uint(d.firstGID) < uint(d.tileCount)
}

// LocalIndex returns the position of a global tile ID inside this tileset's
// image, or false when the ID belongs elsewhere.
func (d Descriptor) LocalIndex(id int) (int, bool) {
	if !d.ContainsTile(id) {
		return 0, false
	}
	return id - d.firstGID, true
}

// LastGID returns the highest global tile ID owned by this tileset.
// It is FirstGID-1 for an empty tileset.
func (d Descriptor) LastGID() int {
	return d.firstGID + d.tileCount - 1
}

// Rows returns the number of tile rows in the source image.
func (d Descriptor) Rows() int {
	if d.columns <= 0 || d.tileCount <= 0 {
		return 0
	}
	return (d.tileCount + d.columns - 1) / d.columns
}

// SourceRect returns the pixel rectangle of a global tile ID inside the
// tileset image. Tiles are laid out row by row, left to right.
func (d Descriptor) SourceRect(id int) (image.Rectangle, bool) {
	if d.columns <= 0 || d.tileWidth <= 0 || d.tileHeight <= 0 {
		return image.Rectangle{}, false
	}
	idx, ok := d.LocalIndex(id)
	if !ok {
		return image.Rectangle{}, false
	}

	x := (idx % d.columns) * d.tileWidth
	y := (idx / d.columns) * d.tileHeight
	return image.Rect(x, y, x+d.tileWidth, y+d.tileHeight), true
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (firstgid=%d, tiles=%d, tilesize=%dx%d)",
		d.source, d.firstGID, d.tileCount, d.tileWidth, d.tileHeight)
}

// Source returns the path to the tileset image.
func (d Descriptor) Source() string { return d.source }

// FirstGID returns the first global tile ID of this tileset.
func (d Descriptor) FirstGID() int { return d.firstGID }

// TileWidth returns the tile width in pixels.
func (d Descriptor) TileWidth() int { return d.tileWidth }

// TileHeight returns the tile height in pixels.
func (d Descriptor) TileHeight() int { return d.tileHeight }

// TileCount returns the total number of tiles in this tileset.
func (d Descriptor) TileCount() int { return d.tileCount }

// Columns returns the number of tile columns in the tileset image.
func (d Descriptor) Columns() int { return d.columns }
