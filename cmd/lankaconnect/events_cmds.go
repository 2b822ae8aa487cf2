package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/jrsteele09/lankaconnect-client/metro"
	"github.com/spf13/cobra"
)

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Browse events, manage your RSVPs and see who is coming",
	}
	cmd.AddCommand(
		a.eventsListCmd(),
		a.eventsGetCmd(),
		a.eventsSearchCmd(),
		a.eventsRsvpCmd(),
		a.eventsCancelRsvpCmd(),
		a.eventsICSCmd(),
		a.eventsSignUpsCmd(),
		a.eventsAttendeesCmd(),
		a.eventsExportAttendeesCmd(),
	)
	return cmd
}

func printEvents(w io.Writer, list []events.Event) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tWHERE\tSTATUS\tSPOTS")
	for _, e := range list {
		where := utils.ValueOr(e.City, "-")
		if st := utils.Value(e.State); st != "" {
			where += ", " + st
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\n", e.ID, e.Title, e.StartDate, where, e.Status, e.SpotsLeft(), e.Capacity)
	}
	tw.Flush()
}

func (a *app) eventsListCmd() *cobra.Command {
	var (
		status, category string
		freeOnly         bool
		req              events.GetEventsRequest
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				s, err := events.ParseEventStatus(status)
				if err != nil {
					return err
				}
				req.Status = &s
			}
			if category != "" {
				c, err := events.ParseEventCategory(category)
				if err != nil {
					return err
				}
				req.Category = &c
			}
			if cmd.Flags().Changed("free-only") {
				req.IsFreeOnly = utils.Ptr(freeOnly)
			}
			for _, id := range req.MetroAreaIDs {
				if _, ok := metro.ByID(id); !ok {
					a.logger.Warn().Str("id", id).Msg("unknown metro area, passing it through")
				}
			}

			list, err := a.queries.List(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(list, func(w io.Writer) { printEvents(w, list) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "event status, by name or number")
	f.StringVar(&category, "category", "", "event category, by name or number")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.State, "state", "", "two-letter state code")
	f.BoolVar(&freeOnly, "free-only", false, "only free events")
	f.StringSliceVar(&req.MetroAreaIDs, "metro", nil, "metro area ID, repeatable")
	f.StringVar(&req.StartDateFrom, "from", "", "earliest start date (ISO 8601)")
	f.StringVar(&req.StartDateTo, "to", "", "latest start date (ISO 8601)")
	return cmd
}

func (a *app) eventsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.queries.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(e, func(w io.Writer) {
				fmt.Fprintf(w, "%s\n%s\n\n", e.Title, e.Description)
				fmt.Fprintf(w, "When:   %s to %s\n", e.StartDate, e.EndDate)
				fmt.Fprintf(w, "Status: %s\n", e.Status)
				fmt.Fprintf(w, "Spots:  %d of %d left\n", e.SpotsLeft(), e.Capacity)
				if e.IsFree {
					fmt.Fprintln(w, "Price:  free")
				} else if e.TicketPriceAmount != nil {
					fmt.Fprintf(w, "Price:  %s %s\n", utils.FormatFloat(*e.TicketPriceAmount), utils.Value(e.TicketPriceCurrency))
				}
			})
		},
	}
}

func (a *app) eventsSearchCmd() *cobra.Command {
	var req events.SearchEventsRequest
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search published events by title and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.SearchTerm = args[0]
			page, err := a.queries.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(page, func(w io.Writer) {
				printEvents(w, page.Items)
				fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", page.Page, max(page.TotalPages, 1), page.TotalCount)
			})
		},
	}
	cmd.Flags().IntVar(&req.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 20, "results per page")
	return cmd
}

func (a *app) eventsRsvpCmd() *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "rsvp ID",
		Short: "Reserve places at an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			req := events.RsvpRequest{Quantity: quantity}
			if u := a.session.User(); u != nil {
				req.UserID = u.UserID
			}
			checkout, err := a.queries.Rsvp(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			result := map[string]string{"eventId": args[0], "checkoutUrl": checkout}
			return a.render(result, func(w io.Writer) {
				if checkout != "" {
					fmt.Fprintf(w, "Complete payment at %s\n", checkout)
					return
				}
				fmt.Fprintf(w, "Reserved %d place(s)\n", req.AttendeeCount())
			})
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 1, "number of places")
	return cmd
}

func (a *app) eventsCancelRsvpCmd() *cobra.Command {
	var deleteCommitments bool
	cmd := &cobra.Command{
		Use:   "cancel-rsvp ID",
		Short: "Cancel your RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.queries.CancelRsvp(cmd.Context(), args[0], deleteCommitments); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "RSVP cancelled")
			return nil
		},
	}
	cmd.Flags().BoolVar(&deleteCommitments, "delete-signups", false, "also drop sign-up commitments")
	return cmd
}

func (a *app) eventsICSCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ics ID",
		Short: "Download the calendar file for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := a.events.GetEventICS(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := a.out.Write(blob.Data)
				return err
			}
			path := utils.FirstNonEmpty(output, blob.FileName, "event-"+args[0]+".ics")
			if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - for stdout")
	return cmd
}
