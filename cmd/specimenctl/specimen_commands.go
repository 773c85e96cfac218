package main

import (
	"fmt"
	"io"
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newSpecimenCommand(ctx *commandContext) *cobra.Command {
	specimenCmd := &cobra.Command{
		Use:     "specimen",
		Aliases: []string{"specimens"},
		Short:   "Manage the specimens of an event",
	}

	specimenCmd.AddCommand(newSpecimenListCommand(ctx))
	specimenCmd.AddCommand(newSpecimenAddCommand(ctx))
	specimenCmd.AddCommand(newSpecimenUpdateCommand(ctx))
	specimenCmd.AddCommand(newSpecimenRemoveCommand(ctx))

	return specimenCmd
}

type specimenFlags struct {
	id          string
	name        string
	locality    string
	description string
	rarity      string
	photoURL    string
	audioURL    string
	composition string
	funFacts    string
	story       string
}

func (f *specimenFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Specimen name")
	fs.StringVar(&f.locality, "locality", "", "Where the specimen was found")
	fs.StringVar(&f.description, "description", "", "Free-form description")
	fs.StringVar(&f.rarity, "rarity", "", "common, uncommon, rare or legendary")
	fs.StringVar(&f.photoURL, "photo-url", "", "Photo URL")
	fs.StringVar(&f.audioURL, "audio-url", "", "Audio note URL")
	fs.StringVar(&f.composition, "composition", "", "Chemical composition, stored verbatim")
	fs.StringVar(&f.funFacts, "fun-facts", "", "Fun facts")
	fs.StringVar(&f.story, "story", "", "Story behind the specimen")
}

// apply overlays the flags the user set onto s.
func (f *specimenFlags) apply(fs *pflag.FlagSet, s *models.Specimen) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("id", &s.ID, f.id)
	set("name", &s.Name, f.name)
	set("locality", &s.Locality, f.locality)
	set("description", &s.Description, f.description)
	set("photo-url", &s.PhotoURL, f.photoURL)
	set("audio-url", &s.AudioNoteURL, f.audioURL)
	set("composition", &s.Composition, f.composition)
	set("fun-facts", &s.FunFacts, f.funFacts)
	set("story", &s.Story, f.story)
	if fs.Changed("rarity") {
		s.Rarity = models.Rarity(f.rarity)
	}
}

func newSpecimenListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List an event's specimens in stored order",
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
			printSpecimens(cmd.OutOrStdout(), ev)
			return nil
		},
	}
}

func newSpecimenAddCommand(ctx *commandContext) *cobra.Command {
	var flags specimenFlags
	cmd := &cobra.Command{
		Use:   "add <event-id>",
		Short: "Add a specimen to an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := catalog.NewSpecimen()
			data.ID = "" // allocated against the event unless --id is set
			flags.apply(cmd.Flags(), &data)

			var added models.Specimen
			err := ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				var err error
				added, err = ed.AddSpecimen(args[0], data)
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
	cmd.Flags().StringVar(&flags.id, "id", "", "Explicit specimen ID (generated when omitted)")
	return cmd
}

func newSpecimenUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags specimenFlags
	cmd := &cobra.Command{
		Use:   "update <event-id> <specimen-id>",
		Short: "Change specimen fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				ev, err := catalog.FindEvent(ed.Doc, args[0])
				if err != nil {
					return err
				}
				current, err := catalog.FindSpecimen(ev, args[1])
				if err != nil {
					return err
				}
				data := *current
				flags.apply(cmd.Flags(), &data)
				return ed.UpdateSpecimen(args[0], args[1], data)
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newSpecimenRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <event-id> <specimen-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a specimen; unknown IDs are ignored",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd.Context(), func(ed *catalog.Editor) error {
				return ed.RemoveSpecimen(args[0], args[1])
			})
		},
	}
}

func printSpecimens(out io.Writer, ev *models.Event) {
	if len(ev.Specimens) == 0 {
		fmt.Fprintln(out, "Specimens: none")
		return
	}
	rows := make([][]string, 0, len(ev.Specimens))
	for _, s := range ev.Specimens {
		rows = append(rows, []string{s.ID, s.Name, string(s.Rarity), s.Locality, s.Composition})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Name", "Rarity", "Locality", "Composition"},
		rows,
		nil,
	))
}
