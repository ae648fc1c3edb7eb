package reporting

import (
	"bytes"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() table {
	return table{
		Title:   "Patient Register",
		Headers: []string{"Name", "Age", "Phone"},
		Widths:  []float64{60, 20, 40},
		Rows: [][]string{
			{"Asha Rao", "42", "555-0101"},
			{"Ben Okafor", "35", "555-0202"},
		},
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := renderPDF(sampleTable())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is not a PDF document")
}

func TestRenderPDF_EmptyTable(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows = nil

	data, err := renderPDF(tbl)
	require.NoError(t, err, "empty report must still render")
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderXLSX_RoundTrip(t *testing.T) {
	tbl := sampleTable()
	data, err := renderXLSX(tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err, "output is not a readable workbook")
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, head := range tbl.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, head, got)
	}

	got, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got)
}

func TestRenderXLSX_EmptyTable(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows = nil

	data, err := renderXLSX(tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
}

func TestExportFilename(t *testing.T) {
	name := exportFilename("patients", "pdf")
	want := fmt.Sprintf("patients_report_%s.pdf", time.Now().Format("20060102"))
	assert.Equal(t, want, name)
	assert.Regexp(t, regexp.MustCompile(`^[a-z]+_report_\d{8}\.(pdf|xlsx)$`), name)
}
