package main

import (
	"errors"
	"fmt"
	"specimenpro/internal/analytics"
	"strconv"

	"github.com/spf13/cobra"
)

func newRevisionsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit int
		daily bool
	)
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "List saved document revisions (sqlite store only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Document.Store != "sqlite" {
				return errors.New("revisions are only kept by the sqlite store; set SPECIMEN_STORE=sqlite or pass --store sqlite")
			}
			s, err := ctx.sqliteStore(cmd.Context())
			if err != nil {
				return err
			}
			if daily {
				return printDailyRevisions(cmd, analytics.NewDB(s.DB))
			}
			revs, err := s.Revisions(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(revs) == 0 {
				fmt.Fprintln(out, "No revisions")
				return nil
			}
			if limit > 0 && len(revs) > limit {
				revs = revs[:limit]
			}
			rows := make([][]string, 0, len(revs))
			for _, r := range revs {
				rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.LastUpdated, strconv.Itoa(r.EventCount)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Revision", "Saved", "Events"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many revisions (0 for all)")
	cmd.Flags().BoolVar(&daily, "daily", false, "Group saves by day")
	return cmd
}

func printDailyRevisions(cmd *cobra.Command, db *analytics.DB) error {
	daily, err := db.GetDailyRevisions(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(daily) == 0 {
		fmt.Fprintln(out, "No revisions")
		return nil
	}
	rows := make([][]string, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, []string{d.Date, strconv.Itoa(d.Saves), strconv.Itoa(d.MaxEvents)})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Day", "Saves", "Max events"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
	return nil
}
