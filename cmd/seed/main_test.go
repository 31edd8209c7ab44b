package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseProductRows(t *testing.T) {
	rows := [][]string{
		{"Synth Pack", "Analog sounds", "19.99", "", "audio, synth"},
		{"Handbook", "", "10", "7.5"},
		{"", "missing title", "5"},
		{"Free thing", "", "0"},
		{"Bad price", "", "abc"},
		{"Bad sale", "", "10", "-1"},
		{"Long tag", "", "10", "", strings.Repeat("x", 101)},
	}

	inputs, skipped := parseProductRows(rows)
	require.Len(t, inputs, 2)
	assert.Equal(t, 5, skipped)

	assert.Equal(t, "Synth Pack", inputs[0].Title)
	assert.Equal(t, 19.99, inputs[0].Price)
	assert.Nil(t, inputs[0].SalePrice)
	assert.Equal(t, "audio, synth", inputs[0].Tags)

	require.NotNil(t, inputs[1].SalePrice)
	assert.Equal(t, 7.5, *inputs[1].SalePrice)
	assert.Empty(t, inputs[1].Tags)
}

func TestReadProductsFromXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"title", "description", "price", "sale_price", "tags"},
		{"Course", "Video course", "50", "35", "video"},
		{"", "", "", "", ""},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	inputs, skipped, err := readProductsFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "Course", inputs[0].Title)
	assert.Equal(t, 35.0, *inputs[0].SalePrice)
	assert.LessOrEqual(t, skipped, 1)

	_, _, err = readProductsFromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
