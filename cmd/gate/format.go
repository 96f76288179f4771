package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vantrevi/gatehouse/internal/models"
)

// formatMoney renders an amount with two decimals, the same way the
// receipts and the dashboard render it.
func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func printTicketTable(out io.Writer, tickets []models.Ticket, total int) {
	if len(tickets) == 0 {
		fmt.Fprintln(out, "No tickets.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSHOW\tGUIDE\tVEHICLE\tADULTS\tPRICE\tTOTAL\tFINAL")
	for _, t := range tickets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			t.ID, t.ShowName, t.GuideName, t.VehicleType,
			t.Adults, formatMoney(t.TicketPrice), formatMoney(t.TotalPrice), formatMoney(t.FinalAmount))
	}
	w.Flush()
	fmt.Fprintf(out, "%d of %d tickets\n", len(tickets), total)
}

func printGuideTable(out io.Writer, guides []models.Guide) {
	if len(guides) == 0 {
		fmt.Fprintln(out, "No guides.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNUMBER\tVEHICLE\tSTATUS\tRATING\tSALES")
	for _, g := range guides {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.1f\t%d\n",
			g.ID, g.Name, g.Number, g.VehicleType, g.Status, float64(g.Rating), g.TotalSales)
	}
	w.Flush()
}
