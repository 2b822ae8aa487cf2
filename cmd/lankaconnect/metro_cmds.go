package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jrsteele09/lankaconnect-client/metro"
	"github.com/spf13/cobra"
)

func (a *app) metroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metro",
		Short: "Look up US metro areas used for event filtering",
	}
	cmd.AddCommand(a.metroListCmd(), a.metroSearchCmd())
	return cmd
}

func printAreas(w io.Writer, areas []metro.MetroArea) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tRADIUS")
	for _, m := range areas {
		radius := "-"
		if !m.IsStateLevel {
			radius = fmt.Sprintf("%d mi", m.RadiusMiles)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.State, radius)
	}
	tw.Flush()
}

func (a *app) metroListCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List metro areas, grouped by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state != "" {
				areas := metro.ByState(state)
				return a.render(areas, func(w io.Writer) { printAreas(w, areas) })
			}
			groups := metro.GroupByState()
			return a.render(groups, func(w io.Writer) {
				for _, g := range groups {
					fmt.Fprintf(w, "%s (%s)\n", g.StateName, g.State)
					printAreas(w, g.Areas)
					fmt.Fprintln(w)
				}
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "two-letter state code")
	return cmd
}

func (a *app) metroSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find metro areas by name or state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			areas := metro.Search(args[0])
			return a.render(areas, func(w io.Writer) { printAreas(w, areas) })
		},
	}
}
