package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/models"
	"github.com/vantrevi/gatehouse/internal/notify"
	"github.com/vantrevi/gatehouse/internal/pricing"
)

func newTicketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Ticket sale management",
	}

	cmd.AddCommand(newTicketNewCmd())
	cmd.AddCommand(newTicketListCmd())
	cmd.AddCommand(newTicketRmCmd())
	return cmd
}

func newTicketNewCmd() *cobra.Command {
	var (
		configPath  string
		vehicle     string
		guideName   string
		guideNumber string
		showName    string
		adults      string
		price       string
		tax         string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Sell a ticket",
		Long: `Prices and submits one sale ticket.

Counts and amounts accept free-form input: anything non-numeric (or
negative) is treated as zero, matching the forgiving entry policy of the
counter form. The total and final amount are always derived — they can
not be passed in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTicketNew(cmd, configPath, ticketInput{
				vehicle:     vehicle,
				guideName:   guideName,
				guideNumber: guideNumber,
				showName:    showName,
				adults:      adults,
				price:       price,
				tax:         tax,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle type (guide, big_car, tt, car, auto)")
	cmd.Flags().StringVar(&guideName, "guide", "", "guide name")
	cmd.Flags().StringVar(&guideNumber, "number", "", "guide number")
	cmd.Flags().StringVar(&showName, "show", "", "show name")
	cmd.Flags().StringVar(&adults, "adults", "0", "number of adults")
	cmd.Flags().StringVar(&price, "price", "0", "unit ticket price")
	cmd.Flags().StringVar(&tax, "tax", "0", "tax percent")
	return cmd
}

// ticketInput carries the raw form values before coercion.
type ticketInput struct {
	vehicle     string
	guideName   string
	guideNumber string
	showName    string
	adults      string
	price       string
	tax         string
}

func runTicketNew(cmd *cobra.Command, configPath string, in ticketInput) error {
	// Coerce at the boundary, then derive. The draft the backend sees is
	// always freshly recomputed from its three independent inputs.
	draft := pricing.Recompute(pricing.Draft{
		VehicleType: models.VehicleType(in.vehicle),
		GuideName:   in.guideName,
		GuideNumber: in.guideNumber,
		ShowName:    in.showName,
		Adults:      pricing.ParseCount(in.adults),
		UnitPrice:   pricing.ParseAmount(in.price),
		TaxPercent:  pricing.ParseAmount(in.tax),
	})

	// Validation failures never reach the network.
	if err := pricing.Validate(draft); err != nil {
		return err
	}

	a, err := newApp(cmd, configPath)
	if err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	created, err := a.client.CreateTicket(cmd.Context(), pricing.Ticket(draft))
	if err != nil {
		return a.apiFailure("sell ticket", err)
	}

	soldBy := ""
	if id, ok := a.session.Identity(); ok {
		soldBy = id.Username
	}
	if err := a.store.AppendSale(models.SaleRecord{
		TicketID:    created.ID,
		VehicleType: string(created.VehicleType),
		GuideName:   created.GuideName,
		GuideNumber: created.GuideNumber,
		ShowName:    created.ShowName,
		Adults:      created.Adults,
		TicketPrice: created.TicketPrice,
		TotalPrice:  created.TotalPrice,
		Tax:         created.Tax,
		FinalAmount: created.FinalAmount,
		SoldBy:      soldBy,
	}); err != nil {
		// The sale went through; a local log failure must not fail it.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: sales log: %v\n", err)
	}

	a.notifier.Notify(cmd.Context(), notify.Event{
		Title:    "ticket sold",
		Body:     fmt.Sprintf("%s × %d — %s", created.ShowName, created.Adults, formatMoney(created.FinalAmount)),
		Severity: notify.SeveritySuccess,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ticket #%d\n", created.ID)
	fmt.Fprintf(out, "  %s — %s (%s)\n", created.ShowName, created.GuideName, created.VehicleType)
	fmt.Fprintf(out, "  %d adults × %s = %s\n", created.Adults, formatMoney(created.TicketPrice), formatMoney(created.TotalPrice))
	fmt.Fprintf(out, "  + %.4g%% tax = %s\n", created.Tax, formatMoney(created.FinalAmount))
	return nil
}

func newTicketListCmd() *cobra.Command {
	var (
		configPath string
		startDate  string
		endDate    string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ticket history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			tickets, total, err := a.client.ListTickets(cmd.Context(), api.TicketFilter{
				StartDate: startDate,
				EndDate:   endDate,
				Search:    search,
			})
			if err != nil {
				return a.apiFailure("list tickets", err)
			}

			printTicketTable(cmd.OutOrStdout(), tickets, total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match guide or show name")
	return cmd
}

func newTicketRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("bad ticket id %q", args[0])
			}

			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.client.DeleteTicket(cmd.Context(), uint(id)); err != nil {
				return a.apiFailure("delete ticket", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted ticket %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	return cmd
}
