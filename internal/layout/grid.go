// Package layout partitions QR artifacts into fixed rows x columns pages.
package layout

import (
	"fmt"
	"math"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"
)

const (
	// LabelLineInches is the height reserved per requested label line.
	LabelLineInches = 0.15
	// MinimalAllowanceInches pads rows when no labels are printed.
	MinimalAllowanceInches = 0.1
	// MaxCellsPerPage caps rows x columns.
	MaxCellsPerPage = 10000
)

type PageKind int

const (
	GridPage PageKind = iota
	TitlePage
)

type Options struct {
	Columns          int
	Rows             int
	CellSizeInches   float64
	IncludeNames     bool
	IncludeIDs       bool
	IncludeTitlePage bool
	Title            string
}

// Item is one artifact plus the text that may label it.
type Item struct {
	Artifact *qr.Artifact
	Name     string
	ID       string
}

// Cell is empty when it pads the last page.
type Cell struct {
	Artifact *qr.Artifact
	Labels   []string
}

func (c Cell) Empty() bool { return c.Artifact == nil }

type Page struct {
	Kind  PageKind
	Title string
	// Cells is Rows x Columns for grid pages and nil for the title page.
	Cells           [][]Cell
	RowHeightInches float64
	CellSizeInches  float64
}

// Filled counts cells holding an artifact.
func (p Page) Filled() int {
	n := 0
	for _, row := range p.Cells {
		for _, c := range row {
			if !c.Empty() {
				n++
			}
		}
	}
	return n
}

// Empty counts padding cells.
func (p Page) Empty() int {
	n := 0
	for _, row := range p.Cells {
		n += len(row)
	}
	return n - p.Filled()
}

func (o Options) Validate() error {
	if o.Columns < 1 {
		return fmt.Errorf("%w: columns must be >= 1, got %d", models.ErrInvalidConfiguration, o.Columns)
	}
	if o.Rows < 1 {
		return fmt.Errorf("%w: rows must be >= 1, got %d", models.ErrInvalidConfiguration, o.Rows)
	}
	if o.Rows > math.MaxInt/o.Columns || o.Rows*o.Columns > MaxCellsPerPage {
		return fmt.Errorf("%w: %dx%d grid exceeds %d cells per page", models.ErrInvalidConfiguration, o.Columns, o.Rows, MaxCellsPerPage)
	}
	if o.CellSizeInches <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %g", models.ErrInvalidConfiguration, o.CellSizeInches)
	}
	return nil
}

func (o Options) CellsPerPage() int { return o.Rows * o.Columns }

// LabelLines is how many text lines sit under each QR image.
func (o Options) LabelLines() int {
	n := 0
	if o.IncludeNames {
		n++
	}
	if o.IncludeIDs {
		n++
	}
	return n
}

// RowHeightInches is the cell size plus the label allowance, shared by every grid page.
func (o Options) RowHeightInches() float64 {
	if lines := o.LabelLines(); lines > 0 {
		return o.CellSizeInches + float64(lines)*LabelLineInches
	}
	return o.CellSizeInches + MinimalAllowanceInches
}

// Fits reports whether the grid fits inside a page of the given size with margin on every side.
func (o Options) Fits(pageWidthIn, pageHeightIn, marginIn float64) bool {
	usableW := pageWidthIn - 2*marginIn
	usableH := pageHeightIn - 2*marginIn
	return float64(o.Columns)*o.CellSizeInches <= usableW &&
		float64(o.Rows)*o.RowHeightInches() <= usableH
}

// PageCount is ceil(n/cellsPerPage) plus one for the title page. It is 0
// for options that fail Validate.
func (o Options) PageCount(n int) int {
	if o.Validate() != nil {
		return 0
	}
	per := o.CellsPerPage()
	pages := (n + per - 1) / per
	if o.IncludeTitlePage {
		pages++
	}
	return pages
}

// Layout chunks items into pages in input order, padding the last page with
// empty cells. A title page, when requested, comes first and holds no cells.
func Layout(items []Item, opts Options) ([]Page, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrNoArtifacts
	}

	per := opts.CellsPerPage()
	rowHeight := opts.RowHeightInches()
	pages := make([]Page, 0, opts.PageCount(len(items)))

	if opts.IncludeTitlePage {
		pages = append(pages, Page{
			Kind:            TitlePage,
			Title:           opts.Title,
			RowHeightInches: rowHeight,
			CellSizeInches:  opts.CellSizeInches,
		})
	}

	for start := 0; start < len(items); start += per {
		end := start + per
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, gridPage(items[start:end], opts, rowHeight))
	}

	return pages, nil
}

func gridPage(chunk []Item, opts Options, rowHeight float64) Page {
	cells := make([][]Cell, opts.Rows)
	for r := range cells {
		cells[r] = make([]Cell, opts.Columns)
	}
	for i, item := range chunk {
		cells[i/opts.Columns][i%opts.Columns] = Cell{
			Artifact: item.Artifact,
			Labels:   labelsFor(item, opts),
		}
	}
	return Page{
		Kind:            GridPage,
		Cells:           cells,
		RowHeightInches: rowHeight,
		CellSizeInches:  opts.CellSizeInches,
	}
}

func labelsFor(item Item, opts Options) []string {
	var labels []string
	if opts.IncludeNames {
		labels = append(labels, item.Name)
	}
	if opts.IncludeIDs {
		labels = append(labels, item.ID)
	}
	return labels
}
