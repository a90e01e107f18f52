package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/star/neoscope/internal/database"
	"github.com/star/neoscope/internal/extract"
	"github.com/star/neoscope/internal/neo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	neoPath, cadPath := "data/neos.csv", "data/cad.json"
	if len(os.Args) > 1 {
		neoPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		cadPath = os.Args[2]
	}

	start := time.Now()
	neos, err := extract.LoadNEOs(neoPath, logger)
	if err != nil {
		fmt.Println("ERROR reading NEO catalog:", err)
		os.Exit(1)
	}
	approaches, err := extract.LoadApproaches(cadPath, logger)
	if err != nil {
		fmt.Println("ERROR reading close approaches:", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s NEOs and %s close approaches in %v\n",
		humanize.Comma(int64(len(neos))), humanize.Comma(int64(len(approaches))), time.Since(start).Round(time.Millisecond))

	db, err := database.New(neos, approaches, logger)
	if err != nil {
		fmt.Println("ERROR building database:", err)
		os.Exit(1)
	}

	s := db.Stats()
	fmt.Printf("NEOs:       %s (%s named, %s potentially hazardous)\n",
		humanize.Comma(int64(s.NEOs)), humanize.Comma(int64(s.Named)), humanize.Comma(int64(s.Hazardous)))
	fmt.Printf("Approaches: %s (%s unlinked, %.2f%%)\n",
		humanize.Comma(int64(s.Approaches)), humanize.Comma(int64(s.Unlinked)), percent(s.Unlinked, s.Approaches))
	if s.Approaches > 0 {
		fmt.Printf("Time range: %s to %s\n", s.Times.Min.Format(neo.TimeLayout), s.Times.Max.Format(neo.TimeLayout))
	}

	// Objects with the most recorded approaches.
	var busiest *neo.NearEarthObject
	withApproaches := 0
	for obj := range db.NEOs() {
		if len(obj.Approaches) > 0 {
			withApproaches++
		}
		if busiest == nil || len(obj.Approaches) > len(busiest.Approaches) {
			busiest = obj
		}
	}
	fmt.Printf("NEOs with approaches: %s\n", humanize.Comma(int64(withApproaches)))
	if busiest != nil && len(busiest.Approaches) > 0 {
		fmt.Printf("Most approaches: %s with %s\n", busiest.Fullname(), humanize.Comma(int64(len(busiest.Approaches))))
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
