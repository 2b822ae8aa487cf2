package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/spf13/cobra"
)

func (a *app) eventsSignUpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signups ID",
		Short: "Show what people are bringing to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := a.queries.SignUpLists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(lists, func(w io.Writer) {
				if len(lists) == 0 {
					fmt.Fprintln(w, "No sign-up lists")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, l := range lists {
					fmt.Fprintf(tw, "%s (%s)\n", l.Category, l.ID)
					for _, item := range l.Items {
						fmt.Fprintf(tw, "  %s\t%s\t%d/%d\n", item.ItemDescription, item.ItemCategory, item.CommittedQuantity, item.Quantity)
					}
					for _, c := range l.Commitments {
						fmt.Fprintf(tw, "  %s\tcommitted\t%d\n", c.ItemDescription, c.Quantity)
					}
				}
				tw.Flush()
			})
		},
	}
}

func (a *app) eventsAttendeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attendees ID",
		Short: "List the attendees of an event you organize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			summary, err := a.queries.Attendees(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(summary, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tPEOPLE\tSTATUS\tPAYMENT\tEMAIL")
				for _, at := range summary.Attendees {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", utils.FirstNonEmpty(at.MainAttendeeName, "-"), at.TotalAttendees, at.Status, at.PaymentStatus, at.ContactEmail)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%d registrations, %d attendees\n", summary.TotalRegistrations, summary.TotalAttendees)
				if !summary.IsFreeEvent {
					fmt.Fprintf(w, "Gross %s, payout %s\n", utils.FormatFloat(summary.GrossRevenue), utils.FormatFloat(summary.Payout()))
				}
			})
		},
	}
}

func (a *app) eventsExportAttendeesCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export-attendees ID",
		Short: "Download the attendee list as CSV or Excel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := events.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			blob, err := a.queries.ExportAttendees(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := a.out.Write(blob.Data)
				return err
			}
			path := utils.FirstNonEmpty(output, blob.FileName, "event-"+args[0]+"-attendees."+f.Extension())
			if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(events.ExportCSV), "csv or excel")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - for stdout")
	return cmd
}
