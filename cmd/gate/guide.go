package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/models"
)

func newGuideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Guide management",
	}

	cmd.AddCommand(newGuideListCmd())
	cmd.AddCommand(newGuideTopCmd())
	cmd.AddCommand(newGuideShowCmd())
	cmd.AddCommand(newGuideAddCmd())
	cmd.AddCommand(newGuideEditCmd())
	cmd.AddCommand(newGuideRmCmd())
	return cmd
}

func newGuideListCmd() *cobra.Command {
	var (
		configPath string
		search     string
		status     string
		vehicle    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List guides",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			guides, err := a.client.ListGuides(cmd.Context(), api.GuideFilter{
				Search:      search,
				Status:      status,
				VehicleType: models.VehicleType(vehicle),
			})
			if err != nil {
				return a.apiFailure("list guides", err)
			}

			printGuideTable(cmd.OutOrStdout(), guides)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match guide name or number")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "filter by vehicle type")
	return cmd
}

func newGuideTopCmd() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the best-scored guides",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			guides, err := a.client.TopGuides(cmd.Context(), limit)
			if err != nil {
				return a.apiFailure("top guides", err)
			}

			printGuideTable(cmd.OutOrStdout(), guides)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of guides")
	return cmd
}

func newGuideShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			g, err := a.client.GetGuide(cmd.Context(), id)
			if err != nil {
				return a.apiFailure("show guide", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Guide %d: %s (%s)\n", g.ID, g.Name, g.Number)
			fmt.Fprintf(out, "  vehicle: %s\n", g.VehicleType)
			fmt.Fprintf(out, "  status:  %s\n", g.Status)
			fmt.Fprintf(out, "  rating:  %.1f\n", float64(g.Rating))
			fmt.Fprintf(out, "  sales:   %d\n", g.TotalSales)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	return cmd
}

func newGuideAddCmd() *cobra.Command {
	var (
		configPath string
		name       string
		number     string
		vehicle    string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new guide",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			vt := models.VehicleType(vehicle)
			if vt != "" && !vt.Valid() {
				return fmt.Errorf("unknown vehicle type %q", vehicle)
			}

			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			created, err := a.client.CreateGuide(cmd.Context(), models.Guide{
				Name:        name,
				Number:      number,
				VehicleType: vt,
				Status:      status,
			})
			if err != nil {
				return a.apiFailure("add guide", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added guide %d: %s\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().StringVar(&name, "name", "", "guide name")
	cmd.Flags().StringVar(&number, "number", "", "guide number")
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle type")
	cmd.Flags().StringVar(&status, "status", "active", "initial status")
	return cmd
}

func newGuideEditCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a guide",
		Long:  "Applies a partial edit: only the flags you pass are changed, everything else is left as is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var upd models.GuideUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				v, _ := flags.GetString("name")
				upd.Name = &v
			}
			if flags.Changed("number") {
				v, _ := flags.GetString("number")
				upd.Number = &v
			}
			if flags.Changed("vehicle") {
				v, _ := flags.GetString("vehicle")
				vt := models.VehicleType(v)
				if !vt.Valid() {
					return fmt.Errorf("unknown vehicle type %q", v)
				}
				upd.VehicleType = &vt
			}
			if flags.Changed("status") {
				v, _ := flags.GetString("status")
				upd.Status = &v
			}
			if upd == (models.GuideUpdate{}) {
				return fmt.Errorf("nothing to change — pass at least one of --name, --number, --vehicle, --status")
			}

			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			updated, err := a.client.UpdateGuide(cmd.Context(), id, upd)
			if err != nil {
				return a.apiFailure("edit guide", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated guide %d: %s\n", updated.ID, updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("number", "", "new number")
	cmd.Flags().String("vehicle", "", "new vehicle type")
	cmd.Flags().String("status", "", "new status")
	return cmd
}

func newGuideRmCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes && !confirmRemoval(cmd, args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}

			a, err := newApp(cmd, configPath)
			if err != nil {
				return err
			}
			if err := a.requireAuth(); err != nil {
				return err
			}

			if err := a.client.DeleteGuide(cmd.Context(), id); err != nil {
				return a.apiFailure("remove guide", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed guide %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Gatehouse config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", s)
	}
	return uint(id), nil
}

func confirmRemoval(cmd *cobra.Command, id string) bool {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "This will remove guide %s and their score history.\n", id)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}
