package tileset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Reading of tileset chunks from .aseprite/.ase files.
// From https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md

type (
	BYTE  = uint8  // An 8-bit unsigned integer value
	WORD  = uint16 // A 16-bit unsigned integer value
	SHORT = int16  // A 16-bit signed integer value
	DWORD = uint32 // A 32-bit unsigned integer value
)

const (
	MagicNumber      = 0xA5E0 // file header
	MagicNumberFrame = 0xF1FA // frame header

	ChunkTypeTileset WORD = 0x2023

	headerSize      = 128
	frameHeaderSize = 16
	chunkHeaderSize = 6 // DWORD size + WORD type
)

// Tileset chunk flags.
const (
	FlagIncludeLinkToExternalFile = 1 << iota // 1
	FlagIncludeTilesInsideFile                // 2
	FlagTileIDZeroAsEmptyTile                 // 4
	FlagXFlipAutoMatch                        // 8
	FlagYFlipAutoMatch                        // 16
	FlagDiagonalFlipAutoMatch                 // 32
)

// ErrNotAseprite is returned when the data is not an Aseprite file.
var ErrNotAseprite = errors.New("tileset: not an aseprite file")

// AsepriteHeader is the 128 byte file header.
type AsepriteHeader struct {
	FileSize          DWORD    // File size (4 bytes)
	MagicNumberHeader WORD     // Magic number (0xA5E0) (2 bytes)
	FrameCount        WORD     // Number of frames (2 bytes)
	Width             WORD     // Width in pixels (2 bytes)
	Height            WORD     // Height in pixels (2 bytes)
	ColorDepth        WORD     // Bits per pixel (2 bytes)
	Flags             DWORD    // Flags (4 bytes)
	Speed             WORD     // Deprecated, frame headers carry durations (2 bytes)
	Reserved1         DWORD    // (4 bytes)
	Reserved2         DWORD    // (4 bytes)
	TransparentIdx    BYTE     // Transparent palette entry (1 byte)
	IgnoreBytes       [3]BYTE  // (3 bytes)
	NumColors         WORD     // Number of colors (2 bytes)
	PixelWidth        BYTE     // (1 byte)
	PixelHeight       BYTE     // (1 byte)
	GridX             SHORT    // (2 bytes)
	GridY             SHORT    // (2 bytes)
	GridWidth         WORD     // Zero if there is no grid (2 bytes)
	GridHeight        WORD     // Zero if there is no grid (2 bytes)
	FutureUse         [84]BYTE // (84 bytes)
}

// FrameHeader is the 16 byte header in front of every frame.
type FrameHeader struct {
	BytesInFrame  DWORD   // Including this header (4 bytes)
	MagicNumber   WORD    // 0xF1FA (2 bytes)
	OldChunkCount WORD    // 0xFFFF means use NewChunkCount (2 bytes)
	FrameDuration WORD    // Milliseconds (2 bytes)
	Reserved      [2]BYTE // (2 bytes)
	NewChunkCount DWORD   // 0 means use OldChunkCount (4 bytes)
}

// NumberOfChunks returns the number of chunks in the frame.
func (fh *FrameHeader) NumberOfChunks() uint32 {
	if fh.OldChunkCount == 0xFFFF {
		return fh.NewChunkCount
	}
	if fh.NewChunkCount == 0 {
		return uint32(fh.OldChunkCount)
	}
	return fh.NewChunkCount
}

// tilesetChunkHead is the fixed part of a 0x2023 chunk (32 bytes).
type tilesetChunkHead struct {
	TilesetID     DWORD
	TilesetFlags  DWORD
	NumberOfTiles DWORD
	TileWidth     WORD
	TileHeight    WORD
	BaseIndex     SHORT // UI only
	Reserved      [14]BYTE
}

// AsepriteTileset is the metadata of one tileset chunk. Tile image data is
// skipped.
type AsepriteTileset struct {
	ID         uint32
	Name       string
	Flags      uint32
	TileCount  int
	TileWidth  int
	TileHeight int
	BaseIndex  int
}

// ReadAseprite reads the tilesets of an .aseprite or .ase file and returns
// one Descriptor per tileset, assigning global IDs sequentially from
// firstGID.
func ReadAseprite(path string, firstGID int) ([]Descriptor, error) {
	ext := filepath.Ext(path)
	if ext != ".aseprite" && ext != ".ase" {
		return nil, fmt.Errorf("tileset: unsupported file type: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeAseprite(f, path, firstGID)
}

// DecodeAseprite is ReadAseprite over a reader. Each Descriptor's source is
// "<source>#<tileset name>", and its columns is 1 since Aseprite stores
// tileset images as a vertical strip.
func DecodeAseprite(r io.Reader, source string, firstGID int) ([]Descriptor, error) {
	tilesets, err := ReadAsepriteTilesets(r)
	if err != nil {
		return nil, fmt.Errorf("tileset: aseprite %s: %w", source, err)
	}

	out := make([]Descriptor, 0, len(tilesets))
	gid := firstGID
	for _, ts := range tilesets {
		name := ts.Name
		if name == "" {
			name = strconv.FormatUint(uint64(ts.ID), 10)
		}
		out = append(out, New(source+"#"+name, gid, ts.TileWidth, ts.TileHeight, ts.TileCount, 1))
		gid += ts.TileCount
	}
	return out, nil
}

// ReadAsepriteTilesets walks every frame and chunk of an Aseprite stream and
// returns the tileset chunks in file order.
func ReadAsepriteTilesets(r io.Reader) ([]AsepriteTileset, error) {
	header := &AsepriteHeader{}
	if err := binary.Read(r, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header.MagicNumberHeader != MagicNumber {
		return nil, fmt.Errorf("%w: magic 0x%X", ErrNotAseprite, header.MagicNumberHeader)
	}

	var tilesets []AsepriteTileset
	for i := 0; i < int(header.FrameCount); i++ {
		frameHeader := &FrameHeader{}
		if err := binary.Read(r, binary.LittleEndian, frameHeader); err != nil {
			return nil, fmt.Errorf("frame %d: read header: %w", i, err)
		}
		if frameHeader.MagicNumber != MagicNumberFrame {
			return nil, fmt.Errorf("frame %d: bad magic 0x%X", i, frameHeader.MagicNumber)
		}

		var totalChunkSize uint32
		for j := 0; j < int(frameHeader.NumberOfChunks()); j++ {
			var size DWORD
			var typ WORD
			if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
				return nil, fmt.Errorf("frame %d chunk %d: %w", i, j, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
				return nil, fmt.Errorf("frame %d chunk %d: %w", i, j, err)
			}
			if size < chunkHeaderSize || size > frameHeader.BytesInFrame {
				return nil, fmt.Errorf("frame %d chunk %d: invalid chunk size %d", i, j, size)
			}

			totalChunkSize += size

			body := int64(size - chunkHeaderSize)
			if typ != ChunkTypeTileset {
				if _, err := io.CopyN(io.Discard, r, body); err != nil {
					return nil, fmt.Errorf("frame %d chunk %d: %w", i, j, err)
				}
				continue
			}
			ts, err := readTilesetChunk(&io.LimitedReader{R: r, N: body})
			if err != nil {
				return nil, fmt.Errorf("frame %d chunk %d: tileset: %w", i, j, err)
			}
			tilesets = append(tilesets, ts)
		}

		if totalChunkSize+frameHeaderSize != frameHeader.BytesInFrame {
			return nil, fmt.Errorf("frame %d: size mismatch: expected %d, got %d",
				i, frameHeader.BytesInFrame, totalChunkSize+frameHeaderSize)
		}
	}

	return tilesets, nil
}

// readTilesetChunk reads a tileset chunk body from r and consumes it to the
// end without buffering it.
func readTilesetChunk(r *io.LimitedReader) (AsepriteTileset, error) {
	var head tilesetChunkHead
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return AsepriteTileset{}, err
	}

	var nameLen WORD
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return AsepriteTileset{}, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return AsepriteTileset{}, err
	}

	// Whatever follows (external file link, compressed tile image) is not
	// needed for metadata.
	if _, err := io.Copy(io.Discard, r); err != nil {
		return AsepriteTileset{}, err
	}
	if r.N > 0 {
		return AsepriteTileset{}, io.ErrUnexpectedEOF
	}

	return AsepriteTileset{
		ID:         head.TilesetID,
		Name:       string(name),
		Flags:      head.TilesetFlags,
		TileCount:  int(head.NumberOfTiles),
		TileWidth:  int(head.TileWidth),
		TileHeight: int(head.TileHeight),
		BaseIndex:  int(head.BaseIndex),
	}, nil
}
