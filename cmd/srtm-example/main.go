package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	srtm "github.com/openelev/go-srtm"
)

func run() error {
	srtmPath := flag.String("srtm-path", os.Getenv("SRTM_PATH"), "list of directories with .hgt data")
	flag.Parse()

	if flag.NArg() != 2 {
		return errors.New("syntax: srtm-example latitude longitude")
	}
	lat, err := strconv.ParseFloat(flag.Arg(0), 64)
	if err != nil {
		return err
	}
	lon, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		return err
	}

	coord, err := srtm.NewCoord(lat, lon)
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

	sample, err := tileSet.Sample(context.Background(), coord)
	if err != nil {
		return err
	}
	fmt.Println(sample)

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
