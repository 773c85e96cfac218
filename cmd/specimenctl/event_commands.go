package main

import (
	"fmt"
	"specimenpro/internal/analytics"
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newEventCommand(ctx *commandContext) *cobra.Command {
	eventCmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "List and edit events",
	}

	eventCmd.AddCommand(newEventListCommand(ctx))
	eventCmd.AddCommand(newEventShowCommand(ctx))
	eventCmd.AddCommand(newEventCreateCommand(ctx))
	eventCmd.AddCommand(newEventUpdateCommand(ctx))
	eventCmd.AddCommand(newEventDeleteCommand(ctx))
	eventCmd.AddCommand(newEventStatsCommand(ctx))

	return eventCmd
}

func newEventListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List events in the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(doc.Events) == 0 {
				fmt.Fprintln(out, "No events")
				return nil
			}
			rows := make([][]string, 0, len(doc.Events))
			for _, ev := range doc.Events {
				rows = append(rows, []string{
					ev.ID,
					ev.Title,
					string(ev.Type),
					string(ev.Status),
					strconv.Itoa(len(ev.Specimens)),
					strconv.Itoa(len(ev.Badges)),
					yesNo(ev.IsAlwaysVisible()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Type", "Status", "Specimens", "Badges", "Always visible"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newEventShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one event with its specimens and badges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := catalog.FindEvent(doc, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", ev.ID)
			fmt.Fprintf(out, "Title:       %s\n", ev.Title)
			fmt.Fprintf(out, "Description: %s\n", ev.Description)
			fmt.Fprintf(out, "Type:        %s\n", ev.Type)
			fmt.Fprintf(out, "Status:      %s\n", ev.Status)
			fmt.Fprintf(out, "Location:    %s (%.6f, %.6f, radius %.0fm)\n", ev.Location, ev.Latitude, ev.Longitude, ev.RadiusMeters)
			fmt.Fprintf(out, "Dates:       %s to %s\n", ev.StartDate, ev.EndDate)
			fmt.Fprintf(out, "Visible:     %s\n", yesNo(ev.IsAlwaysVisible()))
			printSpecimens(out, ev)
			printBadges(out, ev)
			return nil
		},
	}
}

// eventFlags maps flags onto an EventUpdate; only flags the user set are applied.
type eventFlags struct {
	title         string
	description   string
	eventType     string
	status        string
	location      string
	latitude      float64
	longitude     float64
	radius        float64
	startDate     string
	endDate       string
	alwaysVisible bool
}

func (f *eventFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Event title")
	fs.StringVar(&f.description, "description", "", "Event description")
	fs.StringVar(&f.eventType, "type", "", "exhibit, scavenger_hunt, competition or workshop")
	fs.StringVar(&f.status, "status", "", "active, upcoming, ended or draft")
	fs.StringVar(&f.location, "location", "", "Venue name")
	fs.Float64Var(&f.latitude, "latitude", 0, "Venue latitude")
	fs.Float64Var(&f.longitude, "longitude", 0, "Venue longitude")
	fs.Float64Var(&f.radius, "radius", 0, "Check-in radius in meters")
	fs.StringVar(&f.startDate, "start", "", "Start timestamp (ISO-8601)")
	fs.StringVar(&f.endDate, "end", "", "End timestamp (ISO-8601)")
	fs.BoolVar(&f.alwaysVisible, "always-visible", false, "Show the event regardless of status")
}

func (f *eventFlags) update(fs *pflag.FlagSet) catalog.EventUpdate {
	var upd catalog.EventUpdate
	if fs.Changed("title") {
		upd.Title = &f.title
	}
	if fs.Changed("description") {
		upd.Description = &f.description
	}
	if fs.Changed("type") {
		t := models.EventType(f.eventType)
		upd.Type = &t
	}
	if fs.Changed("status") {
		s := models.EventStatus(f.status)
		upd.Status = &s
	}
	if fs.Changed("location") {
		upd.Location = &f.location
	}
	if fs.Changed("latitude") {
		upd.Latitude = &f.latitude
	}
	if fs.Changed("longitude") {
		upd.Longitude = &f.longitude
	}
	if fs.Changed("radius") {
		upd.RadiusMeters = &f.radius
	}
	if fs.Changed("start") {
		upd.StartDate = &f.startDate
	}
	if fs.Changed("end") {
		upd.EndDate = &f.endDate
	}
	if fs.Changed("always-visible") {
		upd.AlwaysVisible = &f.alwaysVisible
	}
	return upd
}

func newEventCreateCommand(ctx *commandContext) *cobra.Command {
	var flags eventFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event with default values, then apply any flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			err := ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				ev := ed.CreateEvent()
				id = ev.ID
				return ed.UpdateEvent(id, flags.update(cmd.Flags()))
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newEventUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags eventFlags
	cmd := &cobra.Command{
		Use:   "update <event-id>",
		Short: "Change event fields; --always-visible=false clears the flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				return ed.UpdateEvent(args[0], flags.update(cmd.Flags()))
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newEventDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				return ed.DeleteEvent(args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newEventStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <event-id>",
		Short: "Summarize an event's specimens and badges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			ev, err := catalog.FindEvent(doc, args[0])
			if err != nil {
				return err
			}
			stats := analytics.Summarize(ev)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", stats.Title, stats.EventID)
			rows := make([][]string, 0, len(stats.SpecimensByRarity)+1)
			for _, rc := range stats.SpecimensByRarity {
				rows = append(rows, []string{string(rc.Rarity), strconv.Itoa(rc.Count)})
			}
			rows = append(rows, []string{"total", strconv.Itoa(stats.TotalSpecimens)})
			fmt.Fprintln(out, renderTable([]string{"Rarity", "Specimens"}, rows, []columnAlignment{alignLeft, alignRight}))

			rows = rows[:0]
			for _, rc := range stats.BadgesByRequirement {
				rows = append(rows, []string{string(rc.RequirementType), strconv.Itoa(rc.Count)})
			}
			rows = append(rows, []string{"total", strconv.Itoa(stats.TotalBadges)})
			fmt.Fprintln(out, renderTable([]string{"Requirement", "Badges"}, rows, []columnAlignment{alignLeft, alignRight}))

			if len(stats.UnreachableBadges) > 0 {
				fmt.Fprintf(out, "Unreachable badges: %s\n", strings.Join(stats.UnreachableBadges, ", "))
			}
			return nil
		},
	}
}
