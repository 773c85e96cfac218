package layout_test

import (
	"fmt"
	"math"
	"specimenpro/internal/layout"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(t *testing.T, n int) []layout.Item {
	t.Helper()
	enc := qr.NewEncoder("https://host")
	items := make([]layout.Item, n)
	for i := range items {
		id := fmt.Sprintf("spec-%08d", i)
		art, err := enc.Encode("event-1", id)
		require.NoError(t, err)
		items[i] = layout.Item{Artifact: art, Name: fmt.Sprintf("Specimen %d", i), ID: id}
	}
	return items
}

func TestLayoutTenSpecimensThreeByFour(t *testing.T) {
	items := makeItems(t, 10)

	pages, err := layout.Layout(items, layout.Options{Columns: 3, Rows: 4, CellSizeInches: 2})
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.Equal(t, layout.GridPage, page.Kind)
	require.Len(t, page.Cells, 4)
	for _, row := range page.Cells {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, 10, page.Filled())
	assert.Equal(t, 2, page.Empty())

	// left-to-right, top-to-bottom in stored order
	for i := 0; i < 10; i++ {
		cell := page.Cells[i/3][i%3]
		assert.Equal(t, items[i].Artifact, cell.Artifact)
	}
	assert.True(t, page.Cells[3][1].Empty())
	assert.True(t, page.Cells[3][2].Empty())
}

func TestLayoutPageCountExact(t *testing.T) {
	cases := []struct {
		n, cols, rows int
		title         bool
	}{
		{1, 1, 1, false},
		{12, 3, 4, false},
		{13, 3, 4, false},
		{25, 3, 4, true},
		{7, 2, 2, true},
		{100, 4, 5, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("n%d_%dx%d_title%v", tc.n, tc.cols, tc.rows, tc.title), func(t *testing.T) {
			opts := layout.Options{Columns: tc.cols, Rows: tc.rows, CellSizeInches: 1, IncludeTitlePage: tc.title}
			pages, err := layout.Layout(makeItems(t, tc.n), opts)
			require.NoError(t, err)

			per := tc.cols * tc.rows
			gridPages := (tc.n + per - 1) / per
			want := gridPages
			if tc.title {
				want++
			}
			assert.Len(t, pages, want)
			assert.Equal(t, want, opts.PageCount(tc.n))

			filled, empty := 0, 0
			for _, p := range pages {
				filled += p.Filled()
				empty += p.Empty()
			}
			assert.Equal(t, tc.n, filled)
			assert.Equal(t, per*gridPages-tc.n, empty)

			// only the last page may carry padding
			for _, p := range pages[:len(pages)-1] {
				if p.Kind == layout.GridPage {
					assert.Zero(t, p.Empty())
				}
			}
		})
	}
}

func TestLayoutTitlePageFirst(t *testing.T) {
	pages, err := layout.Layout(makeItems(t, 3), layout.Options{
		Columns: 2, Rows: 2, CellSizeInches: 1.5,
		IncludeTitlePage: true, Title: "Gem Fair",
	})
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, layout.TitlePage, pages[0].Kind)
	assert.Equal(t, "Gem Fair", pages[0].Title)
	assert.Nil(t, pages[0].Cells)
	assert.Equal(t, layout.GridPage, pages[1].Kind)
	assert.Equal(t, 3, pages[1].Filled())
}

func TestLayoutLabelsAndRowHeight(t *testing.T) {
	items := makeItems(t, 2)

	pages, err := layout.Layout(items, layout.Options{
		Columns: 2, Rows: 1, CellSizeInches: 2, IncludeNames: true, IncludeIDs: true,
	})
	require.NoError(t, err)
	cell := pages[0].Cells[0][0]
	assert.Equal(t, []string{"Specimen 0", "spec-00000000"}, cell.Labels)
	assert.InDelta(t, 2.3, pages[0].RowHeightInches, 1e-9)

	pages, err = layout.Layout(items, layout.Options{Columns: 2, Rows: 1, CellSizeInches: 2})
	require.NoError(t, err)
	assert.Empty(t, pages[0].Cells[0][0].Labels)
	assert.InDelta(t, 2.1, pages[0].RowHeightInches, 1e-9)

	pages, err = layout.Layout(items, layout.Options{Columns: 2, Rows: 1, CellSizeInches: 2, IncludeIDs: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"spec-00000001"}, pages[0].Cells[0][1].Labels)
}

func TestLayoutErrors(t *testing.T) {
	_, err := layout.Layout(nil, layout.Options{Columns: 3, Rows: 4, CellSizeInches: 2})
	assert.ErrorIs(t, err, models.ErrNoArtifacts)

	items := makeItems(t, 1)
	for _, opts := range []layout.Options{
		{Columns: 0, Rows: 4, CellSizeInches: 2},
		{Columns: 3, Rows: 0, CellSizeInches: 2},
		{Columns: 3, Rows: 4, CellSizeInches: 0},
		{Columns: -1, Rows: 4, CellSizeInches: 2},
	} {
		_, err := layout.Layout(items, opts)
		assert.ErrorIs(t, err, models.ErrInvalidConfiguration, "%+v", opts)
	}
}

func TestLayoutRejectsHugeGrids(t *testing.T) {
	items := makeItems(t, 1)
	for _, opts := range []layout.Options{
		{Columns: 1 << 32, Rows: 1 << 32, CellSizeInches: 1},
		{Columns: math.MaxInt, Rows: 2, CellSizeInches: 1},
		{Columns: 101, Rows: 100, CellSizeInches: 1},
	} {
		assert.NotPanics(t, func() {
			_, err := layout.Layout(items, opts)
			assert.ErrorIs(t, err, models.ErrInvalidConfiguration, "%dx%d", opts.Columns, opts.Rows)
		})
		assert.Equal(t, 0, opts.PageCount(10))
	}

	_, err := layout.Layout(items, layout.Options{Columns: 100, Rows: 100, CellSizeInches: 1})
	assert.NoError(t, err)
}

func TestOptionsFits(t *testing.T) {
	opts := layout.Options{Columns: 3, Rows: 4, CellSizeInches: 2, IncludeNames: true}
	assert.True(t, opts.Fits(8.5, 11, 0.5))

	opts.Columns = 4
	assert.False(t, opts.Fits(8.5, 11, 0.5))
}
