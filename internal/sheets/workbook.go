package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"halaqa_points/internal/retry"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Workbook serves ranges from a local .xlsx file laid out like the live
// spreadsheet. The file is reopened on every read so edits show up immediately.
// A bad range or missing sheet is permanent; a failed open may be retried.
type Workbook struct {
	path string
}

func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

func (w *Workbook) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel, err := parseRange(rangeName)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	all, err := f.GetRows(sel.sheet)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to read sheet %q: %w", sel.sheet, err))
	}

	rows := sel.apply(all)
	log.Debug().
		Str("workbook", w.path).
		Str("range", rangeName).
		Int("rows", len(rows)).
		Msg("Read workbook range")
	return rows, nil
}

// selection is an A1-notation range: a sheet name and optional column/row bounds.
// Zero bounds mean unbounded.
type selection struct {
	sheet             string
	firstCol, lastCol int
	firstRow, lastRow int
}

func parseRange(rangeName string) (selection, error) {
	sheet, bounds, hasBounds := strings.Cut(rangeName, "!")
	sel := selection{sheet: strings.Trim(sheet, "'")}
	if sel.sheet == "" {
		return sel, fmt.Errorf("range %q has no sheet name", rangeName)
	}
	if !hasBounds || bounds == "" {
		return sel, nil
	}

	start, end, isSpan := strings.Cut(bounds, ":")
	if !isSpan {
		end = start
	}

	var err error
	if sel.firstCol, sel.firstRow, err = parseCellRef(start); err != nil {
		return sel, fmt.Errorf("invalid range %q: %w", rangeName, err)
	}
	if sel.lastCol, sel.lastRow, err = parseCellRef(end); err != nil {
		return sel, fmt.Errorf("invalid range %q: %w", rangeName, err)
	}
	return sel, nil
}

// parseCellRef accepts "B2", a bare column "B" or a bare row "2"; missing
// parts come back as 0.
func parseCellRef(ref string) (col, row int, err error) {
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}
	if n, convErr := strconv.Atoi(ref); convErr == nil {
		if n < 1 {
			return 0, 0, fmt.Errorf("bad row %q", ref)
		}
		return 0, n, nil
	}
	if col, err = excelize.ColumnNameToNumber(ref); err == nil {
		return col, 0, nil
	}
	return excelize.CellNameToCoordinates(ref)
}

func (s selection) apply(all [][]string) [][]string {
	from, to := 0, len(all)
	if s.firstRow > 0 {
		from = min(s.firstRow-1, len(all))
	}
	if s.lastRow > 0 {
		to = min(s.lastRow, len(all))
	}
	if from > to {
		return [][]string{}
	}

	rows := make([][]string, 0, to-from)
	for _, row := range all[from:to] {
		rows = append(rows, s.columns(row))
	}
	return rows
}

func (s selection) columns(row []string) []string {
	from, to := 0, len(row)
	if s.firstCol > 0 {
		from = min(s.firstCol-1, len(row))
	}
	if s.lastCol > 0 {
		to = min(s.lastCol, len(row))
	}
	if from >= to {
		return []string{}
	}
	return append([]string(nil), row[from:to]...)
}
