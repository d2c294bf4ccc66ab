package srtm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// VoidValue is the reserved sample value marking missing data.
const VoidValue int16 = -32768

// ErrInvalidTileSize is returned when a tile buffer's length matches none
// of the supported tile sizes.
var ErrInvalidTileSize = errors.New("invalid tile size")

// A SampleKind discriminates the three outcomes of a point query.
type SampleKind uint8

const (
	// SampleElevation is a sample holding an elevation in meters.
	SampleElevation SampleKind = iota
	// SampleVoid is a sample holding the void sentinel.
	SampleVoid
	// SampleOutOfBounds means the queried coordinate is not covered by the
	// tile it was asked of.
	SampleOutOfBounds
)

// An ElevationSample is the result of a point query.
type ElevationSample struct {
	Kind   SampleKind
	Meters int16 // set only when Kind is SampleElevation
}

func (s ElevationSample) String() string {
	switch s.Kind {
	case SampleElevation:
		return fmt.Sprintf("%dm", s.Meters)
	case SampleVoid:
		return "void"
	case SampleOutOfBounds:
		return "out of bounds"
	default:
		return fmt.Sprintf("ElevationSample(%d)", s.Kind)
	}
}

// A Tile is one decoded .hgt file: a 1°×1° cell of big-endian elevation
// samples, row-major, north row first. A Tile is immutable after
// construction.
type Tile struct {
	anchorLat  int
	anchorLon  int
	resolution Resolution
	data       []byte
}

// NewTile returns a Tile anchored at the whole-degree south-west corner
// (anchorLat, anchorLon). The resolution is inferred from len(data),
// which must exactly match one of the supported tile sizes. The Tile
// takes ownership of data.
func NewTile(anchorLat, anchorLon int, data []byte) (*Tile, error) {
	resolution, err := ResolutionFromByteLength(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidTileSize, len(data))
	}
	return &Tile{
		anchorLat:  anchorLat,
		anchorLon:  anchorLon,
		resolution: resolution,
		data:       data,
	}, nil
}

// TileFromFile reads and decodes a single .hgt file. The anchor is taken
// from the filename.
func TileFromFile(path string) (*Tile, error) {
	anchorLat, anchorLon, err := ParseFilename(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tile, err := NewTile(anchorLat, anchorLon, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tile, nil
}

// Anchor returns t's south-west corner in whole degrees.
func (t *Tile) Anchor() (lat, lon int) {
	return t.anchorLat, t.anchorLon
}

// Resolution returns t's sampling density.
func (t *Tile) Resolution() Resolution {
	return t.resolution
}

// Filename returns the canonical name of t's .hgt file.
func (t *Tile) Filename() string {
	return Coord{Lat: float64(t.anchorLat), Lon: float64(t.anchorLon)}.Filename()
}

// Get returns the elevation sample nearest to coord. The result is
// SampleOutOfBounds when coord's tile anchor is not t's anchor: the
// caller looked up the wrong tile.
func (t *Tile) Get(coord Coord) ElevationSample {
	if lat, lon := coord.TileAnchor(); lat != t.anchorLat || lon != t.anchorLon {
		return ElevationSample{Kind: SampleOutOfBounds}
	}
	row, col, ok := coord.SampleIndex(t.anchorLat, t.anchorLon, t.resolution)
	if !ok {
		return ElevationSample{Kind: SampleOutOfBounds}
	}
	return t.sample(row, col)
}

// sample decodes the big-endian sample at (row, col).
func (t *Tile) sample(row, col int) ElevationSample {
	offset := 2 * (row*t.resolution.SamplesPerSide() + col)
	raw := int16(binary.BigEndian.Uint16(t.data[offset : offset+2]))
	if raw == VoidValue {
		return ElevationSample{Kind: SampleVoid}
	}
	return ElevationSample{Kind: SampleElevation, Meters: raw}
}

// MaxElevation returns the highest non-void sample in t. ok is false when
// every sample is void.
func (t *Tile) MaxElevation() (meters int16, ok bool) {
	for i := 0; i < len(t.data); i += 2 {
		raw := int16(binary.BigEndian.Uint16(t.data[i : i+2]))
		if raw == VoidValue {
			continue
		}
		if !ok || meters < raw {
			meters, ok = raw, true
		}
	}
	return meters, ok
}

// MinElevation returns the lowest non-void sample in t. ok is false when
// every sample is void.
func (t *Tile) MinElevation() (meters int16, ok bool) {
	for i := 0; i < len(t.data); i += 2 {
		raw := int16(binary.BigEndian.Uint16(t.data[i : i+2]))
		if raw == VoidValue {
			continue
		}
		if !ok || raw < meters {
			meters, ok = raw, true
		}
	}
	return meters, ok
}
