package tileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const yamlManifest = `
tilesets:
  - source: terrain.png
    firstgid: 1
    tilewidth: 32
    tileheight: 32
    tilecount: 48
    columns: 8
  - source: props.png
    firstgid: 49
    tilewidth: 16
    tileheight: 16
    tilecount: 20
    columns: 4
`

const tomlManifest = `
[[tilesets]]
source = "terrain.png"
firstgid = 1
tilewidth = 32
tileheight = 32
tilecount = 48
columns = 8

[[tilesets]]
source = "props.png"
firstgid = 49
tilewidth = 16
tileheight = 16
tilecount = 20
columns = 4
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	want := []Descriptor{
		New("terrain.png", 1, 32, 32, 48, 8),
		New("props.png", 49, 16, 16, 20, 4),
	}

	cases := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "tilesets.yaml", yamlManifest},
		{"yml", "tilesets.yml", yamlManifest},
		{"toml", "tilesets.toml", tomlManifest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeFile(t, dir, c.file, c.content)

			m, err := LoadManifest(path)
			require.NoError(t, err)
			require.Equal(t, path, m.Path())
			require.False(t, m.Strict)

			ds, err := m.Descriptors(true)
			require.NoError(t, err)
			require.Equal(t, want, ds)

			r, err := LoadRegistry(path)
			require.NoError(t, err)
			d, ok := r.Resolve(50)
			require.True(t, ok)
			require.Equal(t, want[1], d)
			_, ok = r.Resolve(200)
			require.False(t, ok)
		})
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "tilesets.json"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadManifest(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := writeFile(t, dir, "broken.yaml", "tilesets: [\n")
	_, err = LoadManifest(path)
	require.Error(t, err)

	path = writeFile(t, dir, "extra.toml", "[[tilesets]]\nsource = \"a.png\"\nmargin = 2\n")
	_, err = LoadManifest(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "margin")

	path = writeFile(t, dir, "extra.yaml", "tilesets:\n  - source: a.png\n    margin: 2\n")
	_, err = LoadManifest(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "margin")

	path = writeFile(t, dir, "typo.yml", "strickt: true\ntilesets: []\n")
	_, err = LoadManifest(path)
	require.ErrorContains(t, err, "strickt")
}

func TestParseManifestEmpty(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatTOML} {
		m, err := ParseManifest(nil, f)
		require.NoError(t, err, f.String())
		require.Empty(t, m.Tilesets)
	}
}

func TestManifestValidation(t *testing.T) {
	lenient := `
tilesets:
  - source: bad.png
    firstgid: 0
    tilewidth: 0
    tileheight: 16
    tilecount: 4
    columns: 2
`
	m, err := ParseManifest([]byte(lenient), FormatYAML)
	require.NoError(t, err)

	ds, err := m.Descriptors(false)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Equal(t, 0, ds[0].FirstGID())

	_, err = m.Descriptors(true)
	require.ErrorIs(t, err, ErrInvalidDescriptor)
	require.Contains(t, err.Error(), "tilesets[0]")

	strict, err := ParseManifest([]byte("strict: true\n"+lenient), FormatYAML)
	require.NoError(t, err)
	require.True(t, strict.Strict)
	_, err = strict.Descriptors(false)
	require.ErrorIs(t, err, ErrInvalidDescriptor)

	path := writeFile(t, t.TempDir(), "strict.yaml", "strict: true\n"+lenient)
	_, err = LoadRegistry(path)
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestManifestEncode(t *testing.T) {
	ds := []Descriptor{
		New("terrain.png", 1, 32, 32, 48, 8),
		New("props.png", 49, 16, 16, 20, 4),
	}

	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := NewManifest(ds).Encode(format)
			require.NoError(t, err)

			m, err := ParseManifest(data, format)
			require.NoError(t, err)
			got, err := m.Descriptors(true)
			require.NoError(t, err)
			require.Equal(t, ds, got)
		})
	}

	_, err := NewManifest(ds).Encode(Format(9))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
