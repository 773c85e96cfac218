package main

import (
	"fmt"
	"io"
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newBadgeCommand(ctx *commandContext) *cobra.Command {
	badgeCmd := &cobra.Command{
		Use:     "badge",
		Aliases: []string{"badges"},
		Short:   "Manage the badges of an event",
	}

	badgeCmd.AddCommand(newBadgeListCommand(ctx))
	badgeCmd.AddCommand(newBadgeAddCommand(ctx))
	badgeCmd.AddCommand(newBadgeUpdateCommand(ctx))
	badgeCmd.AddCommand(newBadgeRemoveCommand(ctx))

	return badgeCmd
}

type badgeFlags struct {
	id              string
	title           string
	description     string
	icon            string
	color           string
	requirementType string
	requirement     int
}

func (f *badgeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Badge title")
	fs.StringVar(&f.description, "description", "", "Badge description")
	fs.StringVar(&f.icon, "icon", "", "Icon symbol name")
	fs.StringVar(&f.color, "color", "", "blue, gold, green, red or purple")
	fs.StringVar(&f.requirementType, "requirement-type", "", "collect_count, collect_all or scan_specific")
	fs.IntVar(&f.requirement, "requirement", 0, "Requirement value (>= 0)")
}

func (f *badgeFlags) apply(fs *pflag.FlagSet, b *models.Badge) {
	if fs.Changed("id") {
		b.ID = f.id
	}
	if fs.Changed("title") {
		b.Title = f.title
	}
	if fs.Changed("description") {
		b.Description = f.description
	}
	if fs.Changed("icon") {
		b.Icon = f.icon
	}
	if fs.Changed("color") {
		b.Color = models.BadgeColor(f.color)
	}
	if fs.Changed("requirement-type") {
		b.RequirementType = models.RequirementType(f.requirementType)
	}
	if fs.Changed("requirement") {
		b.Requirement = f.requirement
	}
}

func newBadgeListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List an event's badges",
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
			printBadges(cmd.OutOrStdout(), ev)
			return nil
		},
	}
}

func newBadgeAddCommand(ctx *commandContext) *cobra.Command {
	var flags badgeFlags
	cmd := &cobra.Command{
		Use:   "add <event-id>",
		Short: "Add a badge to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := catalog.NewBadge()
			data.ID = "" // allocated against the event unless --id is set
			flags.apply(cmd.Flags(), &data)

			var added models.Badge
			err := ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				var err error
				added, err = ed.AddBadge(args[0], data)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), added.ID)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&flags.id, "id", "", "Explicit badge ID (generated when omitted)")
	return cmd
}

func newBadgeUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags badgeFlags
	cmd := &cobra.Command{
		Use:   "update <event-id> <badge-id>",
		Short: "Change badge fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				ev, err := catalog.FindEvent(ed.Doc, args[0])
				if err != nil {
					return err
				}
				current, err := catalog.FindBadge(ev, args[1])
				if err != nil {
					return err
				}
				data := *current
				flags.apply(cmd.Flags(), &data)
				return ed.UpdateBadge(args[0], args[1], data)
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newBadgeRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <event-id> <badge-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a badge; unknown IDs are ignored",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				return ed.RemoveBadge(args[0], args[1])
			})
		},
	}
}

func printBadges(out io.Writer, ev *models.Event) {
	if len(ev.Badges) == 0 {
		fmt.Fprintln(out, "Badges: none")
		return
	}
	rows := make([][]string, 0, len(ev.Badges))
	for _, b := range ev.Badges {
		rows = append(rows, []string{
			b.ID,
			b.Title,
			string(b.Color),
			string(b.RequirementType),
			strconv.Itoa(b.Requirement),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Color", "Requirement", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
}
