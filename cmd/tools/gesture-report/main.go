// gesture-report summarizes a recorded gesture database: per-kind counts
// and magnitude statistics on stdout, plus an optional HTML chart of the
// kind distribution for eyeballing recognition balance.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gestured/internal/db"
)

var (
	dbFile   = flag.String("db", "gesture_data.db", "Path to the gesture database")
	htmlOut  = flag.String("html", "", "Write a kind-distribution chart to this HTML file")
	lookback = flag.Duration("since", 0, "Only include gestures from the last duration (0 = all)")
)

func main() {
	flag.Parse()

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open gesture database: %v", err)
	}
	defer database.Close()

	var since time.Time
	if *lookback > 0 {
		since = time.Now().Add(-*lookback)
	}
	records, err := database.ListGestures(since)
	if err != nil {
		log.Fatalf("Failed to list gestures: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No gestures recorded.")
		return
	}

	byKind := make(map[string][]db.GestureRecord)
	for _, rec := range records {
		byKind[rec.Kind] = append(byKind[rec.Kind], rec)
	}

	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Printf("%d gestures across %d kinds\n\n", len(records), len(kinds))
	for _, kind := range kinds {
		recs := byKind[kind]
		fmt.Printf("%-18s %5d", kind, len(recs))
		if line := statLine(recs); line != "" {
			fmt.Printf("  %s", line)
		}
		fmt.Println()
	}

	if *htmlOut != "" {
		if err := writeChart(*htmlOut, kinds, byKind); err != nil {
			log.Fatalf("Failed to write chart: %v", err)
		}
		fmt.Printf("\nChart written to %s\n", *htmlOut)
	}
}

// statLine summarizes the numeric dimension that matters for a kind:
// travel for swipes and scrolls, scale for pinches, duration for taps.
func statLine(recs []db.GestureRecord) string {
	var xs []float64
	var label string
	switch recs[0].Kind {
	case "two_finger_swipe", "scroll":
		label = "mm"
		for _, r := range recs {
			xs = append(xs, r.MagnitudeMM)
		}
	case "pinch":
		label = "scale"
		for _, r := range recs {
			xs = append(xs, r.Scale)
		}
	case "single_finger_tap", "two_finger_tap":
		label = "ms"
		for _, r := range recs {
			xs = append(xs, float64(r.DurationMS))
		}
	default:
		return ""
	}

	sort.Float64s(xs)
	mean := stat.Mean(xs, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, xs, nil)
	sd := 0.0
	if len(xs) > 1 {
		sd = stat.StdDev(xs, nil)
	}
	return fmt.Sprintf("mean %.2f %s, stddev %.2f, p95 %.2f", mean, label, sd, p95)
}

func writeChart(path string, kinds []string, byKind map[string][]db.GestureRecord) error {
	data := make([]opts.BarData, 0, len(kinds))
	for _, kind := range kinds {
		data = append(data, opts.BarData{Value: len(byKind[kind])})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Gesture Report"}),
		charts.WithTitleOpts(opts.Title{Title: "Recognized Gestures", Subtitle: "count by kind"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(kinds).AddSeries("count", data)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
