package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stitts-dev/gpp-sim/internal/engine"
	"github.com/stitts-dev/gpp-sim/internal/export"
	"github.com/stitts-dev/gpp-sim/internal/ingest"
	"github.com/stitts-dev/gpp-sim/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "gppsim",
		Usage: "Monte Carlo GPP simulator for DFS player pools",
		Commands: []*cli.Command{
			{
				Name:      "simulate",
				Usage:     "Read a players CSV, simulate outcomes, write a metrics CSV",
				ArgsUsage: "",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "players CSV file", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "metrics CSV file (stdout when empty)"},
					&cli.IntFlag{Name: "sims", Aliases: []string{"n"}, Usage: "number of simulations", Value: 10000},
					&cli.Int64Flag{Name: "seed", Usage: "random seed", Value: 42},
					&cli.Float64Flag{Name: "boom-threshold", Usage: "boom line as a multiple of projection", Value: 1.5},
					&cli.Float64Flag{Name: "floor-pct", Usage: "floor percentile", Value: 10},
					&cli.Float64Flag{Name: "ceiling-pct", Usage: "ceiling percentile", Value: 90},
					&cli.IntFlag{Name: "top", Usage: "log the top K plays by boom score", Value: 10},
					&cli.StringFlag{Name: "name-col", Usage: "override name column header"},
					&cli.StringFlag{Name: "proj-col", Usage: "override projection column header"},
					&cli.StringFlag{Name: "pos-col", Usage: "override position column header"},
					&cli.StringFlag{Name: "team-col", Usage: "override team column header"},
					&cli.StringFlag{Name: "opp-col", Usage: "override opponent column header"},
				},
				Action: runSimulate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.GetLogger().Fatalln(err)
	}
}

func runSimulate(c *cli.Context) error {
	log := logger.InitLogger(os.Getenv("LOG_LEVEL"), true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath := c.String("input")
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening players file: %w", err)
	}
	defer file.Close()

	mapping := ingest.ColumnMapping{
		Name:       c.String("name-col"),
		Projection: c.String("proj-col"),
		Position:   c.String("pos-col"),
		Team:       c.String("team-col"),
		Opponent:   c.String("opp-col"),
	}

	pool, err := ingest.ReadPool(file, mapping)
	if err != nil {
		return err
	}

	logger.WithPoolContext(len(pool), inputPath).Info("Loaded player pool")

	opts := engine.SimulationOptions{
		NumSimulations:    c.Int("sims"),
		Seed:              c.Int64("seed"),
		BoomThreshold:     c.Float64("boom-threshold"),
		FloorPercentile:   c.Float64("floor-pct"),
		CeilingPercentile: c.Float64("ceiling-pct"),
	}

	sampler := engine.NewSampler(nil, nil)
	run, err := sampler.Simulate(ctx, pool, opts, nil)
	if err != nil {
		return err
	}

	metrics := engine.Summarize(run)

	logger.WithSimulationContext(run.ID, run.NumSimulations).Info("Simulation complete")

	if top := c.Int("top"); top > 0 {
		for i, m := range engine.TopK(metrics, engine.FieldBoomScore, top) {
			log.WithFields(logrus.Fields{
				"rank":       i + 1,
				"player":     m.Name,
				"boom_score": fmt.Sprintf("%.1f", m.BoomScore),
				"ceiling":    fmt.Sprintf("%.1f", m.Ceiling),
			}).Info("Top boom play")
		}
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		out, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()
		log.Infof("Writing results to %s", path)
	}

	return export.WriteMetrics(out, metrics)
}
