// gpx-elevation fills in the elevation of every point in a GPX file from
// SRTM data.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tkrajina/gpxgo/gpx"
	"golang.org/x/sync/errgroup"

	srtm "github.com/openelev/go-srtm"
)

func run(ctx context.Context, logger *slog.Logger) error {
	srtmPath := flag.String("srtm-path", os.Getenv("SRTM_PATH"), "list of directories with .hgt data")
	overwrite := flag.Bool("overwrite", false, "replace elevations already present")
	output := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("syntax: gpx-elevation [options] track.gpx")
	}

	gpxDoc, err := gpx.ParseFile(flag.Arg(0))
	if err != nil {
		return err
	}

	var options []srtm.TileSetOption
	for _, dir := range filepath.SplitList(*srtmPath) {
		if dir != "" {
			options = append(options, srtm.WithDir(dir))
		}
	}
	tileSet := srtm.NewTileSet(options...)

	// Warm the tile set with each needed tile once, in parallel. GPX
	// devices emit (0, 0) for missing fixes, so null island is skipped.
	coordsByFilename := make(map[string]srtm.Coord)
	gpxDoc.ExecuteOnAllPoints(func(point *gpx.GPXPoint) {
		coord, err := srtm.NewCoord(point.Latitude, point.Longitude)
		if err != nil || isNullIsland(coord) {
			return
		}
		coordsByFilename[coord.Filename()] = coord
	})
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for filename, coord := range coordsByFilename {
		group.Go(func() error {
			switch _, err := tileSet.Sample(groupCtx, coord); {
			case errors.Is(err, srtm.ErrTileNotFound):
				logger.Warn("no tile", "filename", filename)
				return nil
			default:
				return err
			}
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	var updated, skipped int
	gpxDoc.ExecuteOnAllPoints(func(point *gpx.GPXPoint) {
		if point.Elevation.NotNull() && !*overwrite {
			return
		}
		coord, err := srtm.NewCoord(point.Latitude, point.Longitude)
		if err != nil || isNullIsland(coord) {
			return
		}
		sample, err := tileSet.Sample(ctx, coord)
		if err != nil {
			skipped++
			return
		}
		switch sample.Kind {
		case srtm.SampleElevation:
			point.Elevation.SetValue(float64(sample.Meters))
			updated++
		case srtm.SampleVoid, srtm.SampleOutOfBounds:
			skipped++
		}
	})
	logger.Info("elevations added", "updated", updated, "skipped", skipped)

	xml, err := gpxDoc.ToXml(gpx.ToXmlParams{Indent: true})
	if err != nil {
		return err
	}
	if *output == "" {
		_, err := os.Stdout.Write(xml)
		return err
	}
	return os.WriteFile(*output, xml, 0o644)
}

func isNullIsland(coord srtm.Coord) bool {
	return coord.Lat == 0 && coord.Lon == 0
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
