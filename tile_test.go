package srtm_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	srtm "github.com/openelev/go-srtm"
)

// newTileData returns a tile buffer with every sample set to meters.
func newTileData(resolution srtm.Resolution, meters int16) []byte {
	data := make([]byte, resolution.BytesPerTile())
	for i := 0; i < len(data); i += 2 {
		binary.BigEndian.PutUint16(data[i:i+2], uint16(meters))
	}
	return data
}

func setSample(data []byte, resolution srtm.Resolution, row, col int, meters int16) {
	offset := 2 * (row*resolution.SamplesPerSide() + col)
	binary.BigEndian.PutUint16(data[offset:offset+2], uint16(meters))
}

func TestNewTile(t *testing.T) {
	tile, err := srtm.NewTile(13, 56, newTileData(srtm.SRTM3, 100))
	assert.NoError(t, err)
	lat, lon := tile.Anchor()
	assert.Equal(t, 13, lat)
	assert.Equal(t, 56, lon)
	assert.Equal(t, srtm.SRTM3, tile.Resolution())
	assert.Equal(t, "N13E056.hgt", tile.Filename())
}

func TestNewTile_InvalidSize(t *testing.T) {
	for _, n := range []int{0, 1, 100, 2*1201*1201 - 2, 2*1201*1201 + 2} {
		_, err := srtm.NewTile(13, 56, make([]byte, n))
		assert.True(t, errors.Is(err, srtm.ErrInvalidTileSize))
	}
}

func TestTileGet(t *testing.T) {
	data := newTileData(srtm.SRTM3, 100)
	setSample(data, srtm.SRTM3, 1200, 0, 5)    // south-west corner
	setSample(data, srtm.SRTM3, 0, 1200, 7)    // north-east corner
	setSample(data, srtm.SRTM3, 600, 600, 42)  // center
	setSample(data, srtm.SRTM3, 300, 900, srtm.VoidValue)
	tile, err := srtm.NewTile(13, 56, data)
	assert.NoError(t, err)

	for _, tc := range []struct {
		name     string
		coord    srtm.Coord
		expected srtm.ElevationSample
	}{
		{
			name:     "south_west_corner",
			coord:    mustCoord(t, 13, 56),
			expected: srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 5},
		},
		{
			name:     "near_south_west_corner",
			coord:    mustCoord(t, 13.00001, 56.00001),
			expected: srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 5},
		},
		{
			name:     "near_north_east_corner",
			coord:    mustCoord(t, 13.9999999, 56.9999999),
			expected: srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 7},
		},
		{
			name:     "center",
			coord:    mustCoord(t, 13.5, 56.5),
			expected: srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 42},
		},
		{
			name:     "fill",
			coord:    mustCoord(t, 13.1, 56.9),
			expected: srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 100},
		},
		{
			name:     "void",
			coord:    mustCoord(t, 13.75, 56.75),
			expected: srtm.ElevationSample{Kind: srtm.SampleVoid},
		},
		{
			name:     "north_of_tile",
			coord:    mustCoord(t, 20, 56.5),
			expected: srtm.ElevationSample{Kind: srtm.SampleOutOfBounds},
		},
		{
			name:     "east_of_tile",
			coord:    mustCoord(t, 13.5, 57.5),
			expected: srtm.ElevationSample{Kind: srtm.SampleOutOfBounds},
		},
		{
			name:     "north_east_corner_belongs_to_neighbor",
			coord:    mustCoord(t, 14, 57),
			expected: srtm.ElevationSample{Kind: srtm.SampleOutOfBounds},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tile.Get(tc.coord))
			// Tiles are immutable, so a repeated query returns the same
			// result.
			assert.Equal(t, tc.expected, tile.Get(tc.coord))
		})
	}
}

func TestTileGet_VoidBytes(t *testing.T) {
	data := newTileData(srtm.SRTM3, 0)
	offset := 2 * (600*1201 + 600)
	data[offset] = 0x80
	data[offset+1] = 0x00
	tile, err := srtm.NewTile(13, 56, data)
	assert.NoError(t, err)
	assert.Equal(t, srtm.ElevationSample{Kind: srtm.SampleVoid}, tile.Get(mustCoord(t, 13.5, 56.5)))
}

func TestTileMinMaxElevation(t *testing.T) {
	data := newTileData(srtm.SRTM3, srtm.VoidValue)
	setSample(data, srtm.SRTM3, 10, 10, -12)
	setSample(data, srtm.SRTM3, 20, 20, 250)
	setSample(data, srtm.SRTM3, 30, 30, 100)
	tile, err := srtm.NewTile(13, 56, data)
	assert.NoError(t, err)

	maxMeters, ok := tile.MaxElevation()
	assert.True(t, ok)
	assert.Equal(t, int16(250), maxMeters)

	minMeters, ok := tile.MinElevation()
	assert.True(t, ok)
	assert.Equal(t, int16(-12), minMeters)
}

func TestTileMinMaxElevation_AllVoid(t *testing.T) {
	tile, err := srtm.NewTile(13, 56, newTileData(srtm.SRTM3, srtm.VoidValue))
	assert.NoError(t, err)

	_, ok := tile.MaxElevation()
	assert.False(t, ok)
	_, ok = tile.MinElevation()
	assert.False(t, ok)
}

func TestTileFromFile(t *testing.T) {
	dir := t.TempDir()

	data := newTileData(srtm.SRTM3, 100)
	setSample(data, srtm.SRTM3, 600, 600, 263)
	path := filepath.Join(dir, "N44E015.hgt")
	assert.NoError(t, os.WriteFile(path, data, 0o644))

	tile, err := srtm.TileFromFile(path)
	assert.NoError(t, err)
	lat, lon := tile.Anchor()
	assert.Equal(t, 44, lat)
	assert.Equal(t, 15, lon)
	assert.Equal(t, srtm.ElevationSample{Kind: srtm.SampleElevation, Meters: 263}, tile.Get(mustCoord(t, 44.5, 15.5)))
}

func TestTileFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := srtm.TileFromFile(filepath.Join(dir, "elevation.bin"))
	assert.True(t, errors.Is(err, srtm.ErrInvalidFilename))

	_, err = srtm.TileFromFile(filepath.Join(dir, "N44E015.hgt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	truncated := filepath.Join(dir, "N44E016.hgt")
	assert.NoError(t, os.WriteFile(truncated, make([]byte, 10), 0o644))
	_, err = srtm.TileFromFile(truncated)
	assert.True(t, errors.Is(err, srtm.ErrInvalidTileSize))
}
