package srtm

import (
	"errors"
	"fmt"
)

// A Resolution is the sampling density of a tile, named after the
// arc-second spacing between adjacent samples.
type Resolution uint8

const (
	SRTM05 Resolution = iota // 0.5 arc-seconds, 7201×7201 samples.
	SRTM1                    // 1 arc-second, 3601×3601 samples.
	SRTM3                    // 3 arc-seconds, 1201×1201 samples.
)

// ErrUnknownResolution is returned when a byte length matches none of the
// supported tile sizes.
var ErrUnknownResolution = errors.New("unknown resolution")

// resolutions lists every supported Resolution.
var resolutions = []Resolution{SRTM05, SRTM1, SRTM3}

// SamplesPerSide returns the number of rows and columns in a tile. The
// count is odd: a tile's edge row and column are shared with its
// neighbors.
func (r Resolution) SamplesPerSide() int {
	switch r {
	case SRTM05:
		return 7201
	case SRTM1:
		return 3601
	case SRTM3:
		return 1201
	default:
		panic("srtm: unknown resolution")
	}
}

// BytesPerTile returns the exact size of a tile file: two bytes per
// sample.
func (r Resolution) BytesPerTile() int {
	side := r.SamplesPerSide()
	return 2 * side * side
}

// ArcSeconds returns the angular spacing between adjacent samples.
func (r Resolution) ArcSeconds() float64 {
	switch r {
	case SRTM05:
		return 0.5
	case SRTM1:
		return 1
	case SRTM3:
		return 3
	default:
		panic("srtm: unknown resolution")
	}
}

func (r Resolution) String() string {
	switch r {
	case SRTM05:
		return "SRTM05"
	case SRTM1:
		return "SRTM1"
	case SRTM3:
		return "SRTM3"
	default:
		return fmt.Sprintf("Resolution(%d)", uint8(r))
	}
}

// ResolutionFromByteLength infers a tile's resolution from its byte
// length alone. The length must match one of the supported tile sizes
// exactly.
func ResolutionFromByteLength(n int) (Resolution, error) {
	for _, r := range resolutions {
		if n == r.BytesPerTile() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %d bytes", ErrUnknownResolution, n)
}
