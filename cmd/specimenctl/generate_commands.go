package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"specimenpro/internal/artifact"
	"specimenpro/internal/catalog"
	"specimenpro/internal/layout"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"

	"github.com/spf13/cobra"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate QR codes for an event's specimens",
	}

	generateCmd.AddCommand(newGeneratePNGCommand(ctx))
	generateCmd.AddCommand(newGeneratePDFCommand(ctx))

	return generateCmd
}

// batchFunc writes the artifacts for one event and reports where they went.
type batchFunc func(ctx context.Context, ev *models.Event, enc *qr.Encoder) (output string, written int, err error)

func newGeneratePNGCommand(ctx *commandContext) *cobra.Command {
	var (
		outDir string
		size   int
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "png [event-id]",
		Short: "Write one PNG per specimen",
		Args:  eventArgs(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("size") {
				size = cfg.QR.PNGSize
			}
			return runBatches(cmd, ctx, "png", args, all, func(c context.Context, ev *models.Event, enc *qr.Encoder) (string, int, error) {
				dir := outDir
				if all {
					dir = filepath.Join(outDir, eventSlug(ev))
				}
				n, err := artifact.NewPNGSink(dir, size, ctx.logger()).Write(c, ev, enc)
				return dir, n, err
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "qr_codes", "Output directory")
	cmd.Flags().IntVar(&size, "size", 512, "Image side in pixels (default QR_PNG_SIZE)")
	cmd.Flags().BoolVar(&all, "all", false, "Generate for every event, one subdirectory each")
	return cmd
}

func newGeneratePDFCommand(ctx *commandContext) *cobra.Command {
	var (
		out        string
		pageSize   string
		columns    int
		rows       int
		cellInches float64
		names      bool
		ids        bool
		titlePage  bool
		workers    int
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "pdf [event-id]",
		Short: "Write a printable PDF grid of QR codes",
		Args:  eventArgs(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if !fs.Changed("page-size") {
				pageSize = cfg.PDF.PageSize
			}
			if !fs.Changed("columns") {
				columns = cfg.PDF.Columns
			}
			if !fs.Changed("rows") {
				rows = cfg.PDF.Rows
			}
			if !fs.Changed("cell") {
				cellInches = cfg.PDF.CellInches
			}
			if !fs.Changed("names") {
				names = cfg.PDF.IncludeNames
			}
			if !fs.Changed("ids") {
				ids = cfg.PDF.IncludeIDs
			}
			if !fs.Changed("title-page") {
				titlePage = cfg.PDF.IncludeTitlePage
			}
			if !fs.Changed("workers") {
				workers = cfg.PDF.Workers
			}

			size, err := artifact.ParsePageSize(pageSize)
			if err != nil {
				return err
			}
			opts := layout.Options{
				Columns:          columns,
				Rows:             rows,
				CellSizeInches:   cellInches,
				IncludeNames:     names,
				IncludeIDs:       ids,
				IncludeTitlePage: titlePage,
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			sink := artifact.NewPDFSink(size, opts, workers, ctx.logger())

			return runBatches(cmd, ctx, "pdf", args, all, func(c context.Context, ev *models.Event, enc *qr.Encoder) (string, int, error) {
				path := out
				switch {
				case all:
					dir := out
					if dir == "" {
						dir = "."
					}
					if err := os.MkdirAll(dir, 0755); err != nil {
						return dir, 0, fmt.Errorf("%w: create %s: %v", models.ErrIO, dir, err)
					}
					path = filepath.Join(dir, eventSlug(ev)+".pdf")
				case path == "":
					path = artifact.SanitizeName(ev.Title) + ".pdf"
				}
				n, err := sink.Write(c, ev, enc, path)
				return path, n, err
			})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&out, "out", "o", "", "Output file, or directory with --all (default: event title, or . with --all)")
	fs.StringVar(&pageSize, "page-size", "Letter", "Letter or A4")
	fs.IntVar(&columns, "columns", 3, "QR codes per row")
	fs.IntVar(&rows, "rows", 4, "Rows per page")
	fs.Float64Var(&cellInches, "cell", 2.0, "QR side in inches")
	fs.BoolVar(&names, "names", true, "Print specimen names under each code")
	fs.BoolVar(&ids, "ids", false, "Print specimen IDs under each code")
	fs.BoolVar(&titlePage, "title-page", true, "Start with a page naming the event")
	fs.IntVar(&workers, "workers", 4, "Pages rasterized concurrently")
	fs.BoolVar(&all, "all", false, "Generate one PDF per event into the --out directory")
	return cmd
}

func eventArgs(all *bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if *all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	}
}

// runBatches processes events one at a time. With --all, events without
// specimens are skipped; otherwise the first failure stops the run.
func runBatches(cmd *cobra.Command, ctx *commandContext, mode string, args []string, all bool, write batchFunc) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	doc, err := ctx.loadDocument(runCtx)
	if err != nil {
		return err
	}
	enc, err := ctx.encoder()
	if err != nil {
		return err
	}

	var events []*models.Event
	if all {
		for i := range doc.Events {
			events = append(events, &doc.Events[i])
		}
	} else {
		ev, err := catalog.FindEvent(doc, args[0])
		if err != nil {
			return err
		}
		events = append(events, ev)
	}

	out := cmd.OutOrStdout()
	for _, ev := range events {
		output, written, err := write(runCtx, ev, enc)
		if all && errors.Is(err, models.ErrNoArtifacts) {
			fmt.Fprintf(out, "%s: no specimens, skipped\n", ev.ID)
			continue
		}
		if perr := ctx.notifier().PublishBatchGenerated(runCtx, ev.ID, mode, output, written, err); perr != nil {
			ctx.logger().Warn("KAFKA", fmt.Sprintf("batch.generated not delivered: %v", perr))
		}
		if err != nil {
			var batchErr *artifact.BatchError
			if errors.As(err, &batchErr) {
				fmt.Fprintf(out, "%s: %d written before failure\n", ev.ID, batchErr.Written)
			}
			return fmt.Errorf("generate %s for %s: %w", mode, ev.ID, err)
		}
		fmt.Fprintf(out, "%s: %d QR codes -> %s\n", ev.ID, written, output)
	}
	return nil
}

func eventSlug(ev *models.Event) string {
	return artifact.SanitizeName(ev.Title) + "_" + ev.ID
}
