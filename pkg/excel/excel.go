package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DataSource supplies tabular data for export.
type DataSource interface {
	SheetName() string
	Headers() []string
	Rows(ctx context.Context) (func() ([]interface{}, bool), error)
}

type sliceDataSource struct {
	sheet   string
	headers []string
	rows    [][]interface{}
}

func NewSliceDataSource(sheet string, headers []string, rows [][]interface{}) DataSource {
	if sheet == "" {
		sheet = "Sheet1"
	}
	// Excel caps sheet names at 31 characters.
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	return &sliceDataSource{sheet: sheet, headers: headers, rows: rows}
}

func (s *sliceDataSource) SheetName() string {
	return s.sheet
}

func (s *sliceDataSource) Headers() []string {
	return s.headers
}

func (s *sliceDataSource) Rows(ctx context.Context) (func() ([]interface{}, bool), error) {
	i := 0
	return func() ([]interface{}, bool) {
		if i >= len(s.rows) {
			return nil, false
		}
		row := s.rows[i]
		i++
		return row, true
	}, nil
}

type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders the data source into an xlsx workbook.
func (e *Exporter) Export(ctx context.Context, ds DataSource) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := ds.SheetName()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := ds.Headers()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	next, err := ds.Rows(ctx)
	if err != nil {
		return nil, err
	}

	rowIdx := 2
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, ok := next()
		if !ok {
			break
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
		rowIdx++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
