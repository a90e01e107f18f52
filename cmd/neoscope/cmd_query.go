package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/star/neoscope/internal/filters"
	"github.com/star/neoscope/internal/write"
)

const (
	dateLayout        = "2006-01-02"
	defaultPrintLimit = 10
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		date, startDate, endDate string
		distanceMin, distanceMax float64
		velocityMin, velocityMax float64
		diameterMin, diameterMax float64
		hazardous, notHazardous  bool
		limit                    int
		outfile                  string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query for close approaches that match a collection of filters",
		Long: `Query for close approaches that match a collection of filters.

Without --outfile, at most --limit (default 10) matches are printed. With
--outfile, matches are written as CSV, JSON or YAML depending on the
file extension, capped by --limit when it is set.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsDatabase: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var c filters.Criteria

			var err error
			if c.Date, err = dateFlag(flags, "date", date); err != nil {
				return err
			}
			if c.StartDate, err = dateFlag(flags, "start-date", startDate); err != nil {
				return err
			}
			if c.EndDate, err = dateFlag(flags, "end-date", endDate); err != nil {
				return err
			}
			c.DistanceMin = floatFlag(flags, "min-distance", distanceMin)
			c.DistanceMax = floatFlag(flags, "max-distance", distanceMax)
			c.VelocityMin = floatFlag(flags, "min-velocity", velocityMin)
			c.VelocityMax = floatFlag(flags, "max-velocity", velocityMax)
			c.DiameterMin = floatFlag(flags, "min-diameter", diameterMin)
			c.DiameterMax = floatFlag(flags, "max-diameter", diameterMax)
			if flags.Changed("hazardous") {
				c.Hazardous = &hazardous
			}
			if flags.Changed("not-hazardous") {
				v := !notHazardous
				c.Hazardous = &v
			}

			fs := filters.Create(c)
			a.logger.Debug("running query", "filters", fmt.Sprint(fs), "limit", limit)
			results := a.db.Query(fs)

			if outfile == "" {
				n := limit
				if n <= 0 {
					n = defaultPrintLimit
				}
				out := cmd.OutOrStdout()
				for approach := range filters.Limit(results, n) {
					fmt.Fprintln(out, approach)
				}
				return nil
			}

			written, err := write.Write(outfile, filters.Limit(results, limit))
			if err != nil {
				return err
			}
			a.logger.Info("results written", "path", outfile, "count", humanize.Comma(int64(written)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&date, "date", "d", "", "only return close approaches on the given date, in YYYY-MM-DD format")
	f.StringVarP(&startDate, "start-date", "s", "", "only return close approaches on or after the given date, in YYYY-MM-DD format")
	f.StringVarP(&endDate, "end-date", "e", "", "only return close approaches on or before the given date, in YYYY-MM-DD format")
	f.Float64Var(&distanceMin, "min-distance", 0, "in astronomical units, only return close approaches at or beyond this distance")
	f.Float64Var(&distanceMax, "max-distance", 0, "in astronomical units, only return close approaches at or within this distance")
	f.Float64Var(&velocityMin, "min-velocity", 0, "in kilometers per second, only return close approaches at or above this velocity")
	f.Float64Var(&velocityMax, "max-velocity", 0, "in kilometers per second, only return close approaches at or below this velocity")
	f.Float64Var(&diameterMin, "min-diameter", 0, "in kilometers, only return close approaches of NEOs with diameters at least this large")
	f.Float64Var(&diameterMax, "max-diameter", 0, "in kilometers, only return close approaches of NEOs with diameters at most this large")
	f.BoolVar(&hazardous, "hazardous", false, "if specified, only return close approaches of NEOs that are potentially hazardous")
	f.BoolVar(&notHazardous, "not-hazardous", false, "if specified, only return close approaches of NEOs that are not potentially hazardous")
	f.IntVarP(&limit, "limit", "l", 0, "the maximum number of matches to return")
	f.StringVarP(&outfile, "outfile", "o", "", "file in which to save output (.csv, .json, .yaml)")
	cmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")
	return cmd
}

func dateFlag(flags *pflag.FlagSet, name, value string) (*time.Time, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, value)
	}
	return &t, nil
}

func floatFlag(flags *pflag.FlagSet, name string, value float64) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	return &value
}
