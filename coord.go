// Package srtm reads SRTM digital elevation model tiles in the .hgt file
// format and answers point elevation queries.
package srtm

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is NaN,
	// infinite, or outside the geographic range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidFilename is returned when a tile filename does not follow
	// the [NS]DD[EW]DDD.hgt convention.
	ErrInvalidFilename = errors.New("invalid tile filename")
)

// A Coord is a geographic coordinate in degrees.
type Coord struct {
	Lat float64
	Lon float64
}

// NewCoord returns a validated Coord. Latitude must be in [-90, 90] and
// longitude in [-180, 180]; out-of-range and non-finite values are
// rejected, never clamped.
func NewCoord(lat, lon float64) (Coord, error) {
	if math.IsNaN(lat) || lat < -90 || 90 < lat {
		return Coord{}, fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, lat)
	}
	if math.IsNaN(lon) || lon < -180 || 180 < lon {
		return Coord{}, fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lon)
	}
	return Coord{Lat: lat, Lon: lon}, nil
}

// TileAnchor returns the whole-degree south-west corner of the 1°×1° cell
// containing c. Values are floored, not truncated, so lat -0.5 anchors at
// -1.
func (c Coord) TileAnchor() (lat, lon int) {
	return int(math.Floor(c.Lat)), int(math.Floor(c.Lon))
}

// Filename returns the canonical name of the .hgt tile covering c. For
// example, any coordinate in [13,14)×[56,57) yields "N13E056.hgt".
func (c Coord) Filename() string {
	lat, lon := c.TileAnchor()
	latHemisphere, lonHemisphere := 'N', 'E'
	if lat < 0 {
		latHemisphere = 'S'
		lat = -lat
	}
	if lon < 0 {
		lonHemisphere = 'W'
		lon = -lon
	}
	return fmt.Sprintf("%c%02d%c%03d.hgt", latHemisphere, lat, lonHemisphere, lon)
}

// SampleIndex returns the row and column of the sample nearest to c in a
// tile anchored at (anchorLat, anchorLon). Row 0 is the tile's north edge
// because .hgt files store rows north to south. The fractional offset is
// scaled by samples-per-side minus one, as tiles share their edge row and
// column with their neighbors. ok is false when the index falls outside
// the tile.
func (c Coord) SampleIndex(anchorLat, anchorLon int, resolution Resolution) (row, col int, ok bool) {
	side := resolution.SamplesPerSide()
	row = int(math.Round((1 - (c.Lat - float64(anchorLat))) * float64(side-1)))
	col = int(math.Round((c.Lon - float64(anchorLon)) * float64(side-1)))
	if row < 0 || side <= row || col < 0 || side <= col {
		return 0, 0, false
	}
	return row, col, true
}

// ParseFilename returns the south-west anchor encoded in a tile filename.
// It accepts a bare filename or a path ending in one.
func ParseFilename(name string) (lat, lon int, err error) {
	stem, ok := strings.CutSuffix(filepath.Base(name), ".hgt")
	if !ok || len(stem) != 7 {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	latAbs, latErr := strconv.Atoi(stem[1:3])
	lonAbs, lonErr := strconv.Atoi(stem[4:7])
	if latErr != nil || lonErr != nil || latAbs < 0 || lonAbs < 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	switch stem[0] {
	case 'N':
		lat = latAbs
	case 'S':
		lat = -latAbs
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	switch stem[3] {
	case 'E':
		lon = lonAbs
	case 'W':
		lon = -lonAbs
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	return lat, lon, nil
}
