// Command simtime parses, converts and formats simulation times.
//
// The resolution is taken from the --resolution or --scale flags, falling
// back to the SIMTIME_RESOLUTION and SIMTIME_SCALE environment variables.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/govalues/simtime"
	"github.com/urfave/cli"
)

type metadata struct {
	json bool
	log  *slog.Logger
	r    io.Reader
	e    io.Writer
	w    io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero"

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "terminated with error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(r io.Reader, w, e io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "simtime"
	app.Usage = "parse, convert and format simulation times"
	app.Version = version
	app.HideVersion = true
	app.Metadata = map[string]interface{}{}

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "resolution, r",
			Value: "",
			Usage: " time resolution `SPEC` such as ps, 100ns or -12 [$SIMTIME_RESOLUTION]",
		},
		cli.IntFlag{
			Name:  "scale, s",
			Usage: " deprecated base-10 resolution exponent `EXP` [$SIMTIME_SCALE]",
		},
		cli.BoolFlag{
			Name:  "json, j",
			Usage: " print results as JSON",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " log debug messages",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "parse",
			Usage:     "parse times and print their raw value, unit form and seconds",
			ArgsUsage: "TEXT...",
			Action:    runParse,
		},
		{
			Name:      "convert",
			Usage:     "split times into whole units and a remainder",
			ArgsUsage: "TEXT...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "unit, u",
					Value: "s",
					Usage: " target `UNIT` [s|ms|us|ns|ps|fs|as]",
				},
			},
			Action: runConvert,
		},
		{
			Name:      "format",
			Usage:     "print times with a custom layout",
			ArgsUsage: "TEXT...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "prec, p",
					Value: -3,
					Usage: " exponent `P` of the last printed digit, -18..0",
				},
				cli.StringFlag{
					Name:  "decimal-sep",
					Value: ".",
					Usage: " decimal separator `STRING`",
				},
				cli.StringFlag{
					Name:  "digit-sep",
					Value: "",
					Usage: " digit group separator `STRING`",
				},
				cli.BoolFlag{
					Name:  "units",
					Usage: " print a unit after every group of three digits",
				},
				cli.StringFlag{
					Name:  "before",
					Value: "",
					Usage: " `STRING` printed before units",
				},
				cli.StringFlag{
					Name:  "after",
					Value: " ",
					Usage: " `STRING` printed after units",
				},
			},
			Action: runFormat,
		},
		{
			Name:      "sum",
			Usage:     "add times given as arguments or one per line on standard input",
			ArgsUsage: "[TEXT...]",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "time-limit",
					Usage: " real time limit `DURATION` [$SIMTIME_REAL_TIME_LIMIT]",
				},
				cli.DurationFlag{
					Name:  "cpu-time-limit",
					Usage: " CPU time limit `DURATION` [$SIMTIME_CPU_TIME_LIMIT]",
				},
			},
			Action: runSum,
		},
		{
			Name:   "info",
			Usage:  "print the resolution and the range of times",
			Action: runInfo,
		},
	}

	app.Before = func(c *cli.Context) error {
		e := c.App.ErrWriter
		level := slog.LevelInfo
		if c.GlobalBool("verbose") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(e, &slog.HandlerOptions{Level: level}))

		cfg, err := simtime.LoadConfig()
		if err != nil {
			return err
		}
		if c.GlobalIsSet("resolution") {
			cfg.Resolution = c.GlobalString("resolution")
		}
		if c.GlobalIsSet("scale") {
			scale := c.GlobalInt("scale")
			cfg.Scale = &scale
		}
		if err := simtime.Configure(cfg, logger); err != nil {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			json: c.GlobalBool("json"),
			log:  logger,
			r:    r,
			e:    e,
			w:    c.App.Writer,
		}
		return nil
	}

	return app
}
