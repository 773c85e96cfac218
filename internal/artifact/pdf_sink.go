package artifact

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"specimenpro/internal/layout"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
	"golang.org/x/sync/errgroup"
)

const (
	marginInches = 0.5
	labelFontPt  = 9
	titleFontPt  = 28
)

// PDFSink lays an event's specimens out as a QR grid and writes one PDF.
type PDFSink struct {
	PageSize PageSize
	Options  layout.Options
	// Workers bounds how many pages are rasterized at once.
	Workers int
	Logger  *logger.Logger
}

func NewPDFSink(size PageSize, opts layout.Options, workers int, log *logger.Logger) *PDFSink {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PDFSink{PageSize: size, Options: opts, Workers: workers, Logger: log}
}

// pageRaster holds the PNG bytes for each filled cell of one page, row-major.
// Each PNG carries one pixel per QR module and is scaled up by the PDF viewer.
type pageRaster [][]byte

// Write builds the PDF at path. The document is written to path+".tmp" and
// renamed only once complete, so a failed or cancelled run never leaves a
// partial file at path. On success the count is the number of QR cells
// placed; on failure it is 0 since nothing reached path.
func (s *PDFSink) Write(ctx context.Context, ev *models.Event, enc *qr.Encoder, path string) (int, error) {
	if err := checkEvent(ev); err != nil {
		return 0, err
	}

	size := s.PageSize
	if size == "" {
		size = PageLetter
	}
	opts := s.Options
	if opts.Title == "" {
		opts.Title = ev.Title
	}
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	pdf := gofpdf.New("P", "in", string(size), "")
	pageW, pageH := pdf.GetPageSize()
	if !opts.Fits(pageW, pageH, marginInches) {
		return 0, fmt.Errorf("%w: %dx%d grid of %.2fin cells does not fit a %s page",
			models.ErrInvalidConfiguration, opts.Columns, opts.Rows, opts.CellSizeInches, size)
	}
	pdf.SetMargins(marginInches, marginInches, marginInches)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("specimenpro", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	items, err := encodeItems(ev, enc)
	if err != nil {
		return 0, &BatchError{Err: err}
	}
	pages, err := layout.Layout(items, opts)
	if err != nil {
		return 0, err
	}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	placed := 0

	// Pages are rasterized in windows of Workers; within a window pages render
	// concurrently and are added to the document in page order.
	for start := 0; start < len(pages); start += workers {
		end := start + workers
		if end > len(pages) {
			end = len(pages)
		}
		window := pages[start:end]

		rasters := make([]pageRaster, len(window))
		g, gctx := errgroup.WithContext(ctx)
		for i, page := range window {
			if page.Kind != layout.GridPage {
				continue
			}
			i, page := i, page
			g.Go(func() error {
				r, err := renderPage(gctx, page)
				if err != nil {
					return err
				}
				rasters[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return s.abort(ev, path, placed, err)
		}

		for i, page := range window {
			if err := ctx.Err(); err != nil {
				return s.abort(ev, path, placed, err)
			}
			pageNo := start + i
			switch page.Kind {
			case layout.TitlePage:
				addTitlePage(pdf, tr, page.Title, len(items))
			case layout.GridPage:
				placed += addGridPage(pdf, tr, page, rasters[i], pageNo)
			}
			if pdf.Err() {
				return s.abort(ev, path, placed, fmt.Errorf("%w: render page %d: %v", models.ErrIO, pageNo+1, pdf.Error()))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return s.abort(ev, path, placed, err)
	}
	if err := writeAtomic(pdf, path); err != nil {
		return s.abort(ev, path, placed, err)
	}

	s.Logger.LogBatch("PDF", ev.ID, fmt.Sprintf("%d cells on %d pages -> %s", placed, len(pages), path))
	return placed, nil
}

// abort logs how far the document got and reports nothing written, since the
// PDF only appears at path after a successful rename.
func (s *PDFSink) abort(ev *models.Event, path string, placed int, err error) (int, error) {
	s.Logger.Warn("BATCH", fmt.Sprintf("PDF batch for %s stopped with %d cells placed, %s not written: %v", ev.ID, placed, path, err))
	return 0, &BatchError{Written: 0, Err: err}
}

func renderPage(ctx context.Context, page layout.Page) (pageRaster, error) {
	out := make(pageRaster, 0, page.Filled())
	for _, row := range page.Cells {
		for _, cell := range row {
			if cell.Empty() {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := imaging.Encode(&buf, moduleImage(cell.Artifact.Bitmap()), imaging.PNG); err != nil {
				return nil, fmt.Errorf("encode %s: %w", cell.Artifact.SpecimenID, err)
			}
			out = append(out, buf.Bytes())
		}
	}
	return out, nil
}

// moduleImage draws a QR module matrix at one pixel per module.
func moduleImage(bitmap [][]bool) *image.Gray {
	n := len(bitmap)
	img := image.NewGray(image.Rect(0, 0, n, n))
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}

func addTitlePage(pdf *gofpdf.Fpdf, tr func(string) string, title string, count int) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	width := pageW - 2*marginInches

	pdf.SetFont("Helvetica", "B", titleFontPt)
	pdf.SetXY(marginInches, pageH/2-0.5)
	pdf.MultiCell(width, 0.5, tr(title), "", "C", false)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(marginInches)
	pdf.CellFormat(width, 0.3, fmt.Sprintf("%d specimens", count), "", 1, "C", false, 0, "")
}

// addGridPage places the page's QR images centered horizontally with their
// labels stacked beneath. It returns the number of images placed.
func addGridPage(pdf *gofpdf.Fpdf, tr func(string) string, page layout.Page, raster pageRaster, pageNo int) int {
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	cols := len(page.Cells[0])
	cell := page.CellSizeInches
	left := (pageW - float64(cols)*cell) / 2

	pdf.SetFont("Helvetica", "", labelFontPt)
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}

	placed := 0
	for r, row := range page.Cells {
		for c, item := range row {
			if item.Empty() {
				continue
			}
			x := left + float64(c)*cell
			y := marginInches + float64(r)*page.RowHeightInches

			name := fmt.Sprintf("qr-%d-%d", pageNo, placed)
			pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(raster[placed]))
			pdf.ImageOptions(name, x, y, cell, cell, false, imgOpts, 0, "")

			for i, label := range item.Labels {
				pdf.SetXY(x, y+cell+float64(i)*layout.LabelLineInches)
				pdf.CellFormat(cell, layout.LabelLineInches, fitText(pdf, tr, label, cell), "", 0, "C", false, 0, "")
			}
			placed++
		}
	}
	return placed
}

// fitText shortens s with an ellipsis until it fits width and returns it
// translated for the core font.
func fitText(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + "...")
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

func writeAtomic(pdf *gofpdf.Fpdf, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", models.ErrIO, tmp, err)
	}
	if err := pdf.Output(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", models.ErrIO, tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", models.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", models.ErrIO, path, err)
	}
	return nil
}
