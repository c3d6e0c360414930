package tileset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a manifest encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned for manifest files whose extension is not
// .yaml, .yml or .toml.
var ErrUnknownFormat = errors.New("tileset: unknown manifest format")

// Manifest lists the tilesets used by a map. Keys follow the attribute names
// of the Tiled map format.
//
//	strict: true
//	tilesets:
//	  - source: terrain.png
//	    firstgid: 1
//	    tilewidth: 32
//	    tileheight: 32
//	    tilecount: 48
//	    columns: 8
type Manifest struct {
	// Strict rejects entries that fail Descriptor.Validate.
	Strict   bool            `yaml:"strict" toml:"strict"`
	Tilesets []ManifestEntry `yaml:"tilesets" toml:"tilesets"`

	path string
}

type ManifestEntry struct {
	Source     string `yaml:"source" toml:"source"`
	FirstGID   int    `yaml:"firstgid" toml:"firstgid"`
	TileWidth  int    `yaml:"tilewidth" toml:"tilewidth"`
	TileHeight int    `yaml:"tileheight" toml:"tileheight"`
	TileCount  int    `yaml:"tilecount" toml:"tilecount"`
	Columns    int    `yaml:"columns" toml:"columns"`
}

// FormatOf picks the manifest format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: load %s: %w", path, err)
	}

	m, err := ParseManifest(data, format)
	if err != nil {
		return nil, fmt.Errorf("tileset: parse %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// ParseManifest decodes manifest data in the given format.
func ParseManifest(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return &m, nil
}

// NewManifest builds a manifest listing ds.
func NewManifest(ds []Descriptor) *Manifest {
	m := &Manifest{Tilesets: make([]ManifestEntry, 0, len(ds))}
	for _, d := range ds {
		m.Tilesets = append(m.Tilesets, ManifestEntry{
			Source:     d.source,
			FirstGID:   d.firstGID,
			TileWidth:  d.tileWidth,
			TileHeight: d.tileHeight,
			TileCount:  d.tileCount,
			Columns:    d.columns,
		})
	}
	return m
}

// Encode serializes the manifest.
func (m *Manifest) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Path returns the file the manifest was loaded from, if any.
func (m *Manifest) Path() string { return m.path }

// Descriptors builds a Descriptor per entry. Entries are validated when the
// manifest is strict or validate is set; all failures are reported together.
func (m *Manifest) Descriptors(validate bool) ([]Descriptor, error) {
	validate = validate || m.Strict

	out := make([]Descriptor, 0, len(m.Tilesets))
	var errs []error
	for i, e := range m.Tilesets {
		d := New(e.Source, e.FirstGID, e.TileWidth, e.TileHeight, e.TileCount, e.Columns)
		if validate {
			if err := d.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("tilesets[%d]: %w", i, err))
				continue
			}
		}
		out = append(out, d)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// LoadRegistry loads a manifest file into a new Registry.
func LoadRegistry(path string, opts ...Option) (*Registry, error) {
	ds, err := loadDescriptors(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry(opts...)
	r.Add(ds...)
	r.logger.Infof("tileset: loaded %d tilesets from %s", len(ds), path)
	return r, nil
}

func loadDescriptors(path string) ([]Descriptor, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	ds, err := m.Descriptors(false)
	if err != nil {
		return nil, fmt.Errorf("tileset: %s: %w", path, err)
	}
	return ds, nil
}
