// Package ebitentile cuts tiles out of tileset sheets for ebiten rendering.
//
// Sheets are loaded by the caller; this package only slices them along the
// grid described by a tileset.Descriptor.
package ebitentile

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/puzpuzpuz/xsync"

	"github.com/retroblast-engine/tileset"
)

// Atlas maps tileset sources to their loaded sheets.
type Atlas struct {
	reg    *tileset.Registry
	sheets *xsync.MapOf[string, *ebiten.Image]
}

func NewAtlas(reg *tileset.Registry) *Atlas {
	return &Atlas{
		reg:    reg,
		sheets: xsync.NewMapOf[*ebiten.Image](),
	}
}

// SetSheet registers the image for a tileset source.
func (a *Atlas) SetSheet(source string, img *ebiten.Image) {
	if img == nil {
		a.sheets.Delete(source)
		return
	}
	a.sheets.Store(source, img)
}

func (a *Atlas) RemoveSheet(source string) {
	a.sheets.Delete(source)
}

// Tile returns the sub-image for a GID together with its flip flags. It
// returns false for empty GIDs, GIDs no tileset owns, tilesets without a
// sheet, and tiles that fall outside the sheet bounds.
func (a *Atlas) Tile(g tileset.GID) (*ebiten.Image, tileset.Flip, bool) {
	t, ok := a.reg.ResolveGID(g)
	if !ok {
		return nil, 0, false
	}
	sheet, ok := a.sheets.Load(t.Tileset.Source())
	if !ok {
		return nil, 0, false
	}
	rect, ok := t.Tileset.SourceRect(g.ID())
	if !ok || !rect.In(sheet.Bounds()) {
		return nil, 0, false
	}
	sub, ok := sheet.SubImage(rect).(*ebiten.Image)
	if !ok {
		return nil, 0, false
	}
	return sub, t.Flip, true
}

// FlipGeoM returns the transform that applies flip flags to a w x h tile,
// keeping the result inside the tile's original cell. Diagonal flip is
// applied first, then horizontal, then vertical.
func FlipGeoM(f tileset.Flip, w, h int) ebiten.GeoM {
	var g ebiten.GeoM
	fw, fh := float64(w), float64(h)
	if f.Diagonal() {
		g.SetElement(0, 0, 0)
		g.SetElement(0, 1, 1)
		g.SetElement(1, 0, 1)
		g.SetElement(1, 1, 0)
		fw, fh = fh, fw
	}
	if f.Horizontal() {
		g.Scale(-1, 1)
		g.Translate(fw, 0)
	}
	if f.Vertical() {
		g.Scale(1, -1)
		g.Translate(0, fh)
	}
	return g
}
