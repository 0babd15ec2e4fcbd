package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/govalues/simtime"
	"github.com/govalues/simtime/stopwatch"
	"github.com/urfave/cli"
)

var errNoArguments = errors.New("at least one TEXT argument is required")

// checkEvery is the number of lines summed between checks of the time limits.
const checkEvery = 1024

func printJSON(handle io.Writer, message interface{}) error {
	b, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

type parseResult struct {
	Text    string       `json:"text"`
	Raw     int64        `json:"raw"`
	Time    simtime.Time `json:"time"`
	Seconds string       `json:"seconds"`
}

func runParse(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	if len(c.Args()) == 0 {
		return errNoArguments
	}

	results := make([]parseResult, 0, len(c.Args()))
	for _, arg := range c.Args() {
		t, err := simtime.Parse(arg)
		if err != nil {
			return err
		}
		results = append(results, parseResult{
			Text:    arg,
			Raw:     t.Raw(),
			Time:    t,
			Seconds: fmt.Sprintf("%f", t),
		})
	}

	if m.json {
		return printJSON(m.w, results)
	}
	for _, r := range results {
		fmt.Fprintf(m.w, "%s\t%d\t%v\t%s\n", r.Text, r.Raw, r.Time, r.Seconds)
	}
	return nil
}

type convertResult struct {
	Text      string       `json:"text"`
	Unit      string       `json:"unit"`
	Whole     int64        `json:"whole"`
	Remainder simtime.Time `json:"remainder"`
}

func runConvert(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	if len(c.Args()) == 0 {
		return errNoArguments
	}
	unit, err := simtime.ParseUnit(c.String("unit"))
	if err != nil {
		return err
	}

	results := make([]convertResult, 0, len(c.Args()))
	for _, arg := range c.Args() {
		t, err := simtime.Parse(arg)
		if err != nil {
			return err
		}
		whole, rem, err := t.Split(unit)
		if err != nil {
			return err
		}
		results = append(results, convertResult{
			Text:      arg,
			Unit:      unit.Symbol(),
			Whole:     whole,
			Remainder: rem,
		})
	}

	if m.json {
		return printJSON(m.w, results)
	}
	for _, r := range results {
		fmt.Fprintf(m.w, "%s\t%d%s + %v\n", r.Text, r.Whole, r.Unit, r.Remainder)
	}
	return nil
}

func runFormat(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	if len(c.Args()) == 0 {
		return errNoArguments
	}
	style := simtime.Style{
		Prec:       c.Int("prec"),
		DecimalSep: c.String("decimal-sep"),
		DigitSep:   c.String("digit-sep"),
		AddUnits:   c.Bool("units"),
		BeforeUnit: c.String("before"),
		AfterUnit:  c.String("after"),
	}

	lines := make([]string, 0, len(c.Args()))
	for _, arg := range c.Args() {
		t, err := simtime.Parse(arg)
		if err != nil {
			return err
		}
		s, err := t.FormatStyle(style)
		if err != nil {
			return err
		}
		lines = append(lines, strings.TrimSpace(s))
	}

	if m.json {
		return printJSON(m.w, lines)
	}
	for _, s := range lines {
		fmt.Fprintln(m.w, s)
	}
	return nil
}

type sumResult struct {
	Count int          `json:"count"`
	Total simtime.Time `json:"total"`
}

func runSum(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	cfg, err := stopwatch.LoadConfig()
	if err != nil {
		return err
	}
	if c.IsSet("time-limit") {
		cfg.RealTimeLimit = c.Duration("time-limit")
	}
	if c.IsSet("cpu-time-limit") {
		cfg.CPUTimeLimit = c.Duration("cpu-time-limit")
	}
	sw := stopwatch.New()
	sw.Configure(cfg)
	if sw.HasTimeLimits() {
		if err := sw.Start(); err != nil {
			return err
		}
	}

	var r sumResult
	add := func(text string) error {
		t, err := simtime.Parse(text)
		if err != nil {
			return err
		}
		r.Total, err = r.Total.Add(t)
		if err != nil {
			return err
		}
		r.Count++
		if sw.IsRunning() && r.Count%checkEvery == 0 {
			return sw.Check()
		}
		return nil
	}

	if len(c.Args()) > 0 {
		for _, arg := range c.Args() {
			if err := add(arg); err != nil {
				return err
			}
		}
	} else {
		scanner := bufio.NewScanner(m.r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if err := add(line); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	if err := sw.Stop(); err != nil {
		return err
	}
	m.log.Debug("sum finished",
		"count", r.Count,
		"elapsed", sw.Elapsed())

	if m.json {
		return printJSON(m.w, r)
	}
	fmt.Fprintf(m.w, "%v\n", r.Total)
	return nil
}

type infoResult struct {
	Exp            int          `json:"exp"`
	Resolution     string       `json:"resolution"`
	UnitsPerSecond int64        `json:"unitsPerSecond"`
	MaxSeconds     int64        `json:"maxSeconds"`
	MaxTime        simtime.Time `json:"maxTime"`
	Range          string       `json:"range"`
}

func runInfo(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	s, ok := simtime.Default().Scale()
	if !ok {
		return fmt.Errorf("%w: resolution is not set", simtime.ErrConfiguration)
	}
	r := infoResult{
		Exp:            s.Exp(),
		Resolution:     s.String(),
		UnitsPerSecond: s.UnitsPerSecond(),
		MaxSeconds:     s.MaxSeconds(),
		MaxTime:        simtime.MaxTime(),
		Range:          s.Range(),
	}

	if m.json {
		return printJSON(m.w, r)
	}
	fmt.Fprintf(m.w, "resolution:       %s (10^%d s)\n", r.Resolution, r.Exp)
	fmt.Fprintf(m.w, "units per second: %d\n", r.UnitsPerSecond)
	fmt.Fprintf(m.w, "max seconds:      %d\n", r.MaxSeconds)
	fmt.Fprintf(m.w, "max time:         %v (raw %d)\n", r.MaxTime, r.MaxTime)
	fmt.Fprintf(m.w, "range:            %s\n", r.Range)
	return nil
}
