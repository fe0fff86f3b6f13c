package render

import (
	"fmt"
	"io"
	"routeflow-service/internal/domain"
	"text/tabwriter"
)

// Table writes the stops in visiting order followed by the total distance.
func Table(w io.Writer, route domain.Route) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tADDRESS\tLAT\tLON\t")
	for i, s := range route.Stops {
		addr := s.Address
		if s.IsDepot {
			addr += " (depot)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%.6f\t\n", i+1, addr, s.Lat, s.Lon)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	if _, err := fmt.Fprintf(w, "Total distance: %.2f km\n", route.TotalDistanceKm); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
