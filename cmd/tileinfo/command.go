package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/retroblast-engine/tileset"
)

var logger = tileset.NewLogger(tileset.WARNING)

func newApp() *cli.App {
	manifestFlag := &cli.StringFlag{
		Name:     "manifest",
		Aliases:  []string{"m"},
		Usage:    "tileset manifest (.yaml, .yml or .toml)",
		Required: true,
	}

	app := cli.NewApp()
	app.Name = "tileinfo"
	app.Usage = "Inspect tilesets and resolve global tile IDs"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			logger = tileset.NewLogger(tileset.DEBUG)
		}
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Action:    listTilesets,
			Name:      "list",
			Usage:     "List tilesets in firstgid order",
			Flags:     []cli.Flag{manifestFlag},
			ArgsUsage: " ",
		},
		{
			Action:      resolveTiles,
			Name:        "resolve",
			Usage:       "Resolve global tile IDs to their tileset",
			Flags:       []cli.Flag{manifestFlag},
			ArgsUsage:   "<gid>...",
			Description: `Accepts raw layer values; flip flags in the high bits are reported and stripped.`,
		},
		{
			Action: validateManifest,
			Name:   "validate",
			Usage:  "Check every tileset entry and report overlapping ranges",
			Flags:  []cli.Flag{manifestFlag},
		},
		{
			Action:    importAseprite,
			Name:      "aseprite",
			Usage:     "Print a manifest for the tilesets inside Aseprite files",
			ArgsUsage: "<file.aseprite>...",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "firstgid", Value: 1, Usage: "first global ID to assign"},
				&cli.StringFlag{Name: "format", Value: "yaml", Usage: "yaml or toml"},
			},
		},
	}
	return app
}

func listTilesets(c *cli.Context) error {
	reg, err := tileset.LoadRegistry(c.String("manifest"), tileset.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, d := range reg.Descriptors() {
		fmt.Fprintf(c.App.Writer, "%d-%d\t%s\t%dx%d\t%d cols\n",
			d.FirstGID(), d.LastGID(), d.Source(), d.TileWidth(), d.TileHeight(), d.Columns())
	}
	return nil
}

func resolveTiles(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("resolve: no tile IDs given")
	}
	reg, err := tileset.LoadRegistry(c.String("manifest"), tileset.WithLogger(logger))
	if err != nil {
		return err
	}

	for _, arg := range c.Args().Slice() {
		raw, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fmt.Errorf("resolve: bad tile ID %q: %w", arg, err)
		}
		g := tileset.GID(raw)
		t, ok := reg.ResolveGID(g)
		if !ok {
			fmt.Fprintf(c.App.Writer, "%d\tnot found\n", g.ID())
			continue
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\tlocal=%d%s\n", g.ID(), t.Tileset.Source(), t.Index, flipSuffix(t.Flip))
	}
	return nil
}

func flipSuffix(f tileset.Flip) string {
	s := ""
	if f.Horizontal() {
		s += "X"
	}
	if f.Vertical() {
		s += "Y"
	}
	if f.Diagonal() {
		s += "D"
	}
	if f.Hex120() {
		s += "R"
	}
	if s == "" {
		return ""
	}
	return "\tflip=" + s
}

func validateManifest(c *cli.Context) error {
	m, err := tileset.LoadManifest(c.String("manifest"))
	if err != nil {
		return err
	}
	ds, err := m.Descriptors(true)
	if err != nil {
		return err
	}

	reg := tileset.NewRegistry(tileset.WithLogger(logger))
	reg.Add(ds...)
	if overlaps := reg.Overlaps(); len(overlaps) > 0 {
		for _, pair := range overlaps {
			fmt.Fprintf(c.App.Writer, "overlap: %s and %s\n", pair[0], pair[1])
		}
		return fmt.Errorf("%d overlapping tileset pairs", len(overlaps))
	}
	fmt.Fprintf(c.App.Writer, "ok: %d tilesets\n", len(ds))
	return nil
}

func importAseprite(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("aseprite: no files given")
	}
	var format tileset.Format
	switch c.String("format") {
	case "yaml":
		format = tileset.FormatYAML
	case "toml":
		format = tileset.FormatTOML
	default:
		return fmt.Errorf("aseprite: unknown format %q", c.String("format"))
	}

	var all []tileset.Descriptor
	gid := c.Int("firstgid")
	for _, path := range c.Args().Slice() {
		ds, err := tileset.ReadAseprite(path, gid)
		if err != nil {
			return err
		}
		for _, d := range ds {
			logger.Debugf("tileinfo: %s", d)
			gid = d.FirstGID() + d.TileCount()
		}
		all = append(all, ds...)
	}

	out, err := tileset.NewManifest(all).Encode(format)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}
