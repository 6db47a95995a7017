package main

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/urfave/cli/v2"

	"github.com/jyotish-labs/dashactl/internal/logging"
	"github.com/jyotish-labs/dashactl/internal/vimshottari"
)

func main() {
	app := cli.App{
		Name:  "dashactl",
		Usage: "compute Vimshottari dasha periods from the Moon's sidereal longitude",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:     "longitude",
				Aliases:  []string{"l"},
				Usage:    "Moon's sidereal ecliptic longitude at birth, in degrees",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "birth",
				Aliases:  []string{"b"},
				Usage:    "birth instant, any common timestamp format",
				Required: true,
			},
			&cli.UintFlag{
				Name:  "depth",
				Value: 3,
				Usage: "period depth: 1 Mahadasha, 2 Antardasha, 3 Pratyantardasha, ...",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "chart",
				Usage:  "print the balance of dasha and all nine Mahadashas",
				Action: runChart,
			},
			{
				Name:  "active",
				Usage: "print the period chain governing an instant",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "at", Usage: "query instant (default: now)"},
				},
				Action: runActive,
			},
			{
				Name:  "upcoming",
				Usage: "print the next periods at the requested depth",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "walk start instant (default: now)"},
					&cli.IntFlag{Name: "count", Value: 9, Usage: "number of periods"},
				},
				Action: runUpcoming,
			},
		},
	}
	logging.ConfigureRuntime()
	app.RunAndExitOnError()
}

func buildChart(cctx *cli.Context) (*vimshottari.Chart, error) {
	birth, err := dateparse.ParseAny(cctx.String("birth"))
	if err != nil {
		return nil, fmt.Errorf("parse birth: %w", err)
	}
	depth := cctx.Uint("depth")
	if depth < 1 || depth > uint(vimshottari.MaxTreeDepth) {
		return nil, fmt.Errorf("depth %d not in [1, %d]", depth, vimshottari.MaxTreeDepth)
	}
	return vimshottari.NewChart(cctx.Float64("longitude"), birth.UTC(), uint8(depth))
}

func instantFlag(cctx *cli.Context, name string) (time.Time, error) {
	raw := cctx.String(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	at, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return at.UTC(), nil
}

func runChart(cctx *cli.Context) error {
	chart, err := buildChart(cctx)
	if err != nil {
		return err
	}
	pos := chart.Position
	bal := chart.Balance
	fmt.Printf("nakshatra %d  progress %.4f  start lord %s\n", pos.Nakshatra, pos.Progress, bal.Lord)
	fmt.Printf("cycle anchor %s  balance remaining %s\n\n", bal.Anchor.Format(time.RFC3339), formatYears(bal.Remaining))
	for _, m := range chart.Tree().Mahadashas() {
		printPeriod(m)
	}
	return nil
}

func runActive(cctx *cli.Context) error {
	chart, err := buildChart(cctx)
	if err != nil {
		return err
	}
	at, err := instantFlag(cctx, "at")
	if err != nil {
		return err
	}
	path, err := chart.ActivePath(at)
	if err != nil {
		return err
	}
	for _, n := range path {
		printPeriod(n)
	}
	return nil
}

func runUpcoming(cctx *cli.Context) error {
	chart, err := buildChart(cctx)
	if err != nil {
		return err
	}
	from, err := instantFlag(cctx, "from")
	if err != nil {
		return err
	}
	count := cctx.Int("count")
	if count < 1 {
		return fmt.Errorf("count must be positive")
	}
	periods, err := chart.Upcoming(from, count, uint8(cctx.Uint("depth")))
	if err != nil {
		return err
	}
	for _, n := range periods {
		printPeriod(n)
	}
	return nil
}

func printPeriod(n vimshottari.PeriodNode) {
	indent := ""
	if n.Depth > 1 {
		indent = fmt.Sprintf("%*s", (int(n.Depth)-1)*2, "")
	}
	fmt.Printf("%s%-8s %s  ->  %s  (%s)\n",
		indent, n.Lord,
		n.Start.UTC().Format(time.RFC3339),
		n.End.UTC().Format(time.RFC3339),
		formatYears(n.Duration()))
}

func formatYears(d time.Duration) string {
	return fmt.Sprintf("%.4fy", float64(d)/float64(vimshottari.Year))
}
