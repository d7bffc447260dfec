package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pulseboard/export"
)

// timeNow is swapped in tests.
var timeNow = time.Now

func main() {
	format := flag.String("format", "json", "export format: json, csv, excel, pdf, word/docx, powerpoint/pptx")
	input := flag.String("input", "", "path to a raw dashboard data JSON file")
	user := flag.String("user", "", "name recorded as the exporting user")
	filtered := flag.Bool("filtered", false, "mark the export as filtered")
	charts := flag.Bool("charts", false, "embed captured charts (PDF only)")
	filters := flag.String("filters", "", "active filters as name=value pairs, comma separated")
	preset := flag.String("preset", "", "apply a saved filter preset by name")
	output := flag.String("output", "", "output directory (default: configured exports directory)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: pulseboard -input dashboard.json [-format pdf] [-user name]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid dashboard data: %v\n", err)
		os.Exit(1)
	}

	opts := export.Options{
		IsFiltered:    *filtered,
		IncludeCharts: *charts,
	}
	for _, pair := range strings.Split(*filters, ",") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		opts.ActiveFilters = append(opts.ActiveFilters, export.Filter{Name: name, Value: value})
		opts.IsFiltered = true
	}

	app := NewApp()
	if err := app.Startup(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if *output != "" {
		app.SetOutputDir(*output)
	}

	if *preset != "" {
		presetOpts, err := app.ApplyFilterPreset(*preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		presetOpts.IncludeCharts = opts.IncludeCharts
		presetOpts.ActiveFilters = append(presetOpts.ActiveFilters, opts.ActiveFilters...)
		opts = presetOpts
	}

	if err := app.Export(*format, raw, *user, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
