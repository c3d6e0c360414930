package tileset

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync"
)

// Registry resolves global tile IDs to the tileset that owns them.
//
// Tilesets are kept in descending FirstGID order. When ranges overlap
// (malformed data) the tileset with the greatest FirstGID not exceeding the
// ID wins, and among equal FirstGIDs the one added first wins.
//
// A Registry is safe for concurrent use: one writer, many readers.
type Registry struct {
	mu       sync.RWMutex
	tilesets []Descriptor

	// bySource is written under mu and read without it.
	bySource *xsync.MapOf[string, Descriptor]
	logger   Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	o := buildOptions(opts)
	return &Registry{
		bySource: xsync.NewMapOf[Descriptor](),
		logger:   o.logger,
	}
}

// Add registers tilesets.
func (r *Registry) Add(ds ...Descriptor) {
	if len(ds) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]Descriptor, 0, len(r.tilesets)+len(ds))
	next = append(next, r.tilesets...)
	next = append(next, ds...)
	for _, d := range ds {
		r.logger.Debugf("tileset: registered %s", d)
	}
	r.swap(next)
	r.refreshSources(sources(ds))
}

// Replace atomically swaps the registry contents for ds.
func (r *Registry) Replace(ds []Descriptor) {
	next := slices.Clone(ds)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debugf("tileset: replacing %d tilesets with %d", len(r.tilesets), len(next))
	stale := sources(r.tilesets)
	r.swap(next)
	r.refreshSources(append(stale, sources(next)...))
}

// Remove drops every tileset with the given source. It reports whether
// anything was removed.
func (r *Registry) Remove(source string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(r.tilesets), func(d Descriptor) bool {
		return d.source == source
	})
	if len(next) == len(r.tilesets) {
		return false
	}
	r.logger.Debugf("tileset: removed %s", source)
	r.swap(next)
	r.refreshSources([]string{source})
	return true
}

// swap installs next as the tileset list. r.mu must be held for writing.
func (r *Registry) swap(next []Descriptor) {
	slices.SortStableFunc(next, func(a, b Descriptor) int {
		return cmp.Compare(b.firstGID, a.firstGID)
	})
	r.tilesets = next

	for _, pair := range overlaps(next) {
		r.logger.Warnf("tileset: %s overlaps %s", pair[0], pair[1])
	}
}

// refreshSources points each source's BySource entry at the first tileset in
// resolution order carrying it, or drops the entry. r.mu must be held for
// writing.
func (r *Registry) refreshSources(srcs []string) {
	for _, src := range srcs {
		i := slices.IndexFunc(r.tilesets, func(d Descriptor) bool {
			return d.source == src
		})
		if i < 0 {
			r.bySource.Delete(src)
			continue
		}
		r.bySource.Store(src, r.tilesets[i])
	}
}

func sources(ds []Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.source)
	}
	return out
}

// Resolve returns the tileset owning the global tile ID.
func (r *Registry) Resolve(id int) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ts := r.tilesets
	start := sort.Search(len(ts), func(i int) bool {
		return ts[i].firstGID <= id
	})
	for _, d := range ts[start:] {
		if d.ContainsTile(id) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Lookup is like Resolve but reports a missing tile as ErrTileNotFound.
func (r *Registry) Lookup(id int) (Descriptor, error) {
	d, ok := r.Resolve(id)
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: gid %d", ErrTileNotFound, id)
	}
	return d, nil
}

// ResolveGID resolves a raw GID, flip flags included, to its tileset and
// local index. Empty GIDs never resolve.
func (r *Registry) ResolveGID(g GID) (Tile, bool) {
	if g.Empty() {
		return Tile{}, false
	}
	d, ok := r.Resolve(g.ID())
	if !ok {
		return Tile{}, false
	}
	idx, _ := d.LocalIndex(g.ID())
	return Tile{GID: g, Tileset: d, Index: idx, Flip: g.Flags()}, true
}

// BySource returns the tileset registered under source. With duplicate
// sources the one that wins ID resolution is returned. Entries are updated
// one source at a time, so during a write BySource may briefly disagree with
// Resolve.
func (r *Registry) BySource(source string) (Descriptor, bool) {
	return r.bySource.Load(source)
}

// Len returns the number of registered tilesets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tilesets)
}

// Descriptors returns the registered tilesets in ascending FirstGID order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	out := slices.Clone(r.tilesets)
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Descriptor) int {
		return cmp.Compare(a.firstGID, b.firstGID)
	})
	return out
}

// Overlaps returns every pair of registered tilesets whose ID ranges
// intersect.
func (r *Registry) Overlaps() [][2]Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return overlaps(r.tilesets)
}

func overlaps(ts []Descriptor) [][2]Descriptor {
	var out [][2]Descriptor
	for i := 0; i < len(ts); i++ {
		if ts[i].tileCount <= 0 {
			continue
		}
		for j := i + 1; j < len(ts); j++ {
			if ts[j].tileCount <= 0 {
				continue
			}
			if ts[i].firstGID <= ts[j].LastGID() && ts[j].firstGID <= ts[i].LastGID() {
				out = append(out, [2]Descriptor{ts[i], ts[j]})
			}
		}
	}
	return out
}
