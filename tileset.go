package srtm

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"
)

var (
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "srtm_tile_cache_hits_total",
		Help: "The total number of hits on the loaded tile cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "srtm_tile_cache_misses_total",
		Help: "The total number of misses on the loaded tile cache",
	})
	tileLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "srtm_tile_loads_total",
		Help: "The total number of tiles read from storage",
	})
	tileLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "srtm_tile_load_errors_total",
		Help: "The total number of failed tile loads",
	})
)

// ErrTileNotFound is returned when no search filesystem contains the tile
// covering the queried coordinate.
var ErrTileNotFound = errors.New("tile not found")

// A TileSet loads .hgt tiles on demand and keeps every loaded tile for
// its own lifetime. The number of distinct tiles touched in one process
// run is small, so loaded tiles are never evicted. A TileSet is safe for
// concurrent use: at most one load runs per filename.
type TileSet struct {
	fsyss []fs.FS
	mutex sync.RWMutex
	tiles map[string]*Tile
	group singleflight.Group
}

// A TileSetOption sets an option on a TileSet.
type TileSetOption func(*TileSet)

// NewTileSet returns a new TileSet with the given options.
func NewTileSet(options ...TileSetOption) *TileSet {
	s := &TileSet{
		tiles: make(map[string]*Tile),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// WithFS appends filesystems to search for tiles, in order.
func WithFS(fsyss ...fs.FS) TileSetOption {
	return func(s *TileSet) {
		s.fsyss = append(s.fsyss, fsyss...)
	}
}

// WithDir appends a directory to search for tiles.
func WithDir(dir string) TileSetOption {
	return func(s *TileSet) {
		s.fsyss = append(s.fsyss, os.DirFS(dir))
	}
}

// Sample returns the elevation sample at coord, loading the covering tile
// on first use.
func (s *TileSet) Sample(ctx context.Context, coord Coord) (ElevationSample, error) {
	tile, err := s.getTileCached(ctx, coord.Filename())
	if err != nil {
		return ElevationSample{}, err
	}
	return tile.Get(coord), nil
}

// Samples returns the samples at coords, loading each distinct tile at
// most once.
func (s *TileSet) Samples(ctx context.Context, coords []Coord) ([]ElevationSample, error) {
	samples := make([]ElevationSample, len(coords))

	// Group indexes by tile filename.
	indexesByFilename := make(map[string][]int)
	for index, coord := range coords {
		filename := coord.Filename()
		indexesByFilename[filename] = append(indexesByFilename[filename], index)
	}

	// Populate samples one tile at a time.
	for filename, indexes := range indexesByFilename {
		tile, err := s.getTileCached(ctx, filename)
		if err != nil {
			return nil, err
		}
		for _, index := range indexes {
			samples[index] = tile.Get(coords[index])
		}
	}

	return samples, nil
}

// getTileCached returns the tile with the given filename, using the cache
// if possible. Concurrent callers for the same uncached filename share a
// single load.
func (s *TileSet) getTileCached(ctx context.Context, filename string) (*Tile, error) {
	s.mutex.RLock()
	tile, ok := s.tiles[filename]
	s.mutex.RUnlock()
	if ok {
		tileCacheHits.Inc()
		return tile, nil
	}
	tileCacheMisses.Inc()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err, _ := s.group.Do(filename, func() (any, error) {
		s.mutex.RLock()
		tile, ok := s.tiles[filename]
		s.mutex.RUnlock()
		if ok {
			return tile, nil
		}

		tile, err := s.loadTile(filename)
		if err != nil {
			tileLoadErrors.Inc()
			return nil, err
		}
		tileLoads.Inc()

		s.mutex.Lock()
		s.tiles[filename] = tile
		s.mutex.Unlock()
		return tile, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Tile), nil
}

// loadTile searches s's filesystems in order and decodes the first file
// named filename.
func (s *TileSet) loadTile(filename string) (*Tile, error) {
	anchorLat, anchorLon, err := ParseFilename(filename)
	if err != nil {
		return nil, err
	}
	for _, fsys := range s.fsyss {
		data, err := fs.ReadFile(fsys, filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		tile, err := NewTile(anchorLat, anchorLon, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return tile, nil
	}
	return nil, fmt.Errorf("%s: %w", filename, ErrTileNotFound)
}
