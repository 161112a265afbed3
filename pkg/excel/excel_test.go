package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExporter_Export(t *testing.T) {
	ds := NewSliceDataSource(
		"Errors",
		[]string{"Row", "Column", "Message", "Severity"},
		[][]interface{}{
			{2, "email", "Duplicate entry for unique field", "ERROR"},
			{5, "", "Entity not found", "ERROR"},
		},
	)

	data, err := NewExporter().Export(context.Background(), ds)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := f.GetCellValue("Errors", "A1")
	require.NoError(t, err)
	require.Equal(t, "Row", got)

	got, err = f.GetCellValue("Errors", "C2")
	require.NoError(t, err)
	require.Equal(t, "Duplicate entry for unique field", got)

	got, err = f.GetCellValue("Errors", "A3")
	require.NoError(t, err)
	require.Equal(t, "5", got)
}

func TestNewSliceDataSource_TruncatesLongSheetName(t *testing.T) {
	ds := NewSliceDataSource("a-very-long-sheet-name-that-exceeds-the-limit", nil, nil)
	require.Len(t, ds.SheetName(), 31)
}
