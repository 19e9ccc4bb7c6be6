// Command bvh-driver is the example driver spec.md §6 describes: build a
// hierarchy over a structured point cloud and run an independently-sized
// batch of random radius or k-nearest queries against it, reporting match
// counts. It mirrors original_source/examples/bvh_driver/bvh_driver.cpp's
// command-line shape and its separation between make_stuctured_cloud (always
// builds the hierarchy) and make_random_cloud (always generates the query
// points), built the way achilleasa-polaris/main.go builds its urfave/cli
// app.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/urfave/cli"

	"github.com/rdpeck/bvhgo/access"
	"github.com/rdpeck/bvhgo/bvh"
	"github.com/rdpeck/bvhgo/bvhbackend"
	"github.com/rdpeck/bvhgo/geom"
	"github.com/rdpeck/bvhgo/internal/cloud"
	"github.com/rdpeck/bvhgo/internal/driverconfig"
	"github.com/rdpeck/bvhgo/internal/logging"
)

var log = logging.New("bvh-driver")

func main() {
	app := cli.NewApp()
	app.Name = "bvh-driver"
	app.Usage = "build a spatial hierarchy over a structured point cloud and query it with a random batch"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "nx", Value: 11, Usage: "structured build-grid points along x"},
		cli.IntFlag{Name: "ny", Value: 11, Usage: "structured build-grid points along y"},
		cli.IntFlag{Name: "nz", Value: 11, Usage: "structured build-grid points along z"},
		cli.IntFlag{Name: "N", Value: 100, Usage: "number of random query points, independent of the build grid"},
		cli.StringFlag{Name: "mode", Value: "radius", Usage: "query mode: radius or knn"},
		cli.StringFlag{Name: "node", Value: "serial", Usage: "execution backend: serial or parallel"},
		cli.Float64Flag{Name: "radius", Usage: "fixed search radius for --mode radius; unset draws a random radius per query (capped so each query matches roughly 100 points on average)"},
		cli.IntFlag{Name: "k", Usage: "fixed neighbor count for --mode knn; unset draws a random k per query in [1, floor(sqrt(nx^2+ny^2+nz^2))]"},
		cli.StringFlag{Name: "config", Usage: "path to a bvhdriver.toml overriding the defaults above"},
		cli.Int64Flag{Name: "seed", Usage: "random seed for the query cloud and any random radius/k draws (defaults to the current time)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logs.Fatal(errors.New("bvh-driver run failed").Wrap(err))
	}
}

// driverParams is the CLI-independent shape run() hands off to runDriver, so
// the actual driver logic can be exercised by tests without going through
// urfave/cli's argument parsing.
type driverParams struct {
	NX, NY, NZ int
	N          int
	Mode       string
	Radius     float64 // <= 0 means "draw a random radius per query"
	K          int     // <= 0 means "draw a random k per query"
	Seed       int64
}

func run(c *cli.Context) error {
	cfg := driverconfig.Default()
	if path := c.String("config"); path != "" {
		loaded, err := driverconfig.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	p := driverParams{
		NX:     cfg.Cloud.NX,
		NY:     cfg.Cloud.NY,
		NZ:     cfg.Cloud.NZ,
		N:      cfg.Cloud.N,
		Mode:   cfg.Query.Mode,
		Radius: cfg.Query.Radius,
		K:      cfg.Query.K,
	}
	if c.IsSet("nx") {
		p.NX = c.Int("nx")
	}
	if c.IsSet("ny") {
		p.NY = c.Int("ny")
	}
	if c.IsSet("nz") {
		p.NZ = c.Int("nz")
	}
	if c.IsSet("N") {
		p.N = c.Int("N")
	}
	if c.IsSet("mode") {
		p.Mode = c.String("mode")
	}
	if c.IsSet("radius") {
		p.Radius = c.Float64("radius")
	}
	if c.IsSet("k") {
		p.K = c.Int("k")
	}

	p.Seed = c.Int64("seed")
	if !c.IsSet("seed") {
		p.Seed = time.Now().UnixNano()
	}

	backendName := cfg.Backend
	if c.IsSet("node") {
		backendName = c.String("node")
	}
	var backend bvhbackend.Backend
	switch backendName {
	case "serial":
		backend = bvhbackend.Serial{}
	case "parallel":
		backend = bvhbackend.Threaded{}
	default:
		return fmt.Errorf("bvh-driver: --node must be serial or parallel, got %q", backendName)
	}

	results, err := runDriver(p, backend, log)
	if err != nil {
		return err
	}

	log.Noticef("ran %d %s queries, %d total matches", len(results.Offsets)-1, p.Mode, len(results.Indices))
	return nil
}

// runDriver builds a hierarchy over the structured nx*ny*nz grid and runs a
// batch of N independently-generated random queries against it, following
// original_source/examples/bvh_driver/bvh_driver.cpp's clear separation
// between the structured build cloud and the random query cloud: --N never
// influences how the hierarchy is built, only how many queries are run.
func runDriver(p driverParams, backend bvhbackend.Backend, logger logging.Logger) (bvh.Results, error) {
	if p.Mode != "radius" && p.Mode != "knn" {
		return bvh.Results{}, fmt.Errorf("bvh-driver: --mode must be radius or knn, got %q", p.Mode)
	}

	lx, ly, lz := float64(p.NX-1), float64(p.NY-1), float64(p.NZ-1)
	buildPoints := cloud.Structured(lx, ly, lz, p.NX, p.NY, p.NZ)

	boxes := make([]geom.Box, len(buildPoints))
	for i, pt := range buildPoints {
		boxes[i] = geom.BoxFromPoint(pt)
	}

	logger.Infof("building hierarchy over %d structured primitives on the %s backend (seed=%d)", len(boxes), backend.Name(), p.Seed)
	tree, err := bvh.Build(access.NewSliceAccessor(boxes), backend, bvh.WithLogger(logger))
	if err != nil {
		return bvh.Results{}, err
	}

	rng := rand.New(rand.NewSource(p.Seed))
	queryPoints := cloud.Random(lx, ly, lz, p.N, rng)
	logger.Infof("running %d random queries in %s mode", len(queryPoints), p.Mode)

	predicates := make([]bvh.Predicate, len(queryPoints))
	switch p.Mode {
	case "radius":
		// Cap the random radius so each query matches roughly 100 points on
		// average: n*pi*r^2/(Lx^2+Ly^2+Lz^2) <= 100, solved for r.
		n := float64(len(buildPoints))
		maxRadius := math.Sqrt(100 * (lx*lx + ly*ly + lz*lz) / (n * math.Pi))
		for i, pt := range queryPoints {
			radius := p.Radius
			if radius <= 0 {
				radius = rng.Float64() * maxRadius
			}
			predicates[i] = bvh.OverlapPredicate{Region: geom.NewBox(
				geom.NewPoint(pt[0]-radius, pt[1]-radius, pt[2]-radius),
				geom.NewPoint(pt[0]+radius, pt[1]+radius, pt[2]+radius),
			)}
		}
	case "knn":
		maxK := int(math.Floor(math.Sqrt(float64(p.NX*p.NX + p.NY*p.NY + p.NZ*p.NZ))))
		if maxK < 1 {
			maxK = 1
		}
		for i, pt := range queryPoints {
			k := p.K
			if k <= 0 {
				k = 1 + rng.Intn(maxK)
			}
			predicates[i] = bvh.NearestPredicate{Point: pt, K: k}
		}
	}

	return bvh.Query(tree, backend, predicates, bvh.WithQueryLogger(logger))
}
