package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zerostour/internal/trips"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func newTripsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Preview customer trip searches",
	}
	cmd.AddCommand(newTripsSearchCommand())
	return cmd
}

func newTripsSearchCommand() *cobra.Command {
	var (
		search trips.Search
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Generate the results page for a search",
		Example: "  zerosctl trips search --origin quito --destination cuenca --date 2026-03-10 --passengers 2",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			params.Set("origin", search.Origin)
			params.Set("destination", search.Destination)
			params.Set("tripType", search.TripType)
			params.Set("departureDate", search.DepartureDate)
			params.Set("returnDate", search.ReturnDate)
			params.Set("passengers", strconv.Itoa(search.Passengers))

			gen := trips.NewGenerator(seed, nil, time.Now)
			s, err := trips.ParseSearch(params, gen.Now())
			if err != nil {
				return err
			}
			res, err := gen.Results(s)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s · %s · %d passenger(s)\n\n", res.Title, s.DepartureDate, s.Passengers)
			fmt.Fprintln(w, tripTable(res.Trips))
			if len(res.Returns) > 0 {
				fmt.Fprintf(w, "\nReturn · %s\n\n", s.ReturnDate)
				fmt.Fprintln(w, tripTable(res.Returns))
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&search.Origin, "origin", "", "Departure city.")
	fs.StringVar(&search.Destination, "destination", "", "Arrival city.")
	fs.StringVar(&search.TripType, "trip-type", trips.OneWay, "one-way or round-trip.")
	fs.StringVar(&search.DepartureDate, "date", "", "Departure date, yyyy-MM-dd (default today).")
	fs.StringVar(&search.ReturnDate, "return", "", "Return date, yyyy-MM-dd.")
	fs.IntVar(&search.Passengers, "passengers", 1, "Number of passengers.")
	fs.Uint64Var(&seed, "seed", 0, "Random seed; 0 picks one from the clock.")
	return cmd
}

func tripTable(list []trips.Trip) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("ID", "DEPARTS", "ARRIVES", "DURATION", "PRICE", "TOTAL", "SEATS", "BUS", "AMENITIES")
	for _, t := range list {
		table.AddRow(t.ID, t.DepartureTime, t.ArrivalTime, t.DurationLabel,
			"$"+strconv.Itoa(t.Price), "$"+strconv.Itoa(t.TotalPrice),
			t.AvailableSeats, t.BusType, strings.Join(t.Amenities, ", "))
	}
	return table
}
