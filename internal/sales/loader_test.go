package sales

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleCSV = `NOMBRE,APELLIDO,REGION,VENTAS TOTALES,UNIDADES VENDIDAS,ANTIGUEDAD
Ana,García,East,100,2,3
Luis,Pérez,West,50,1,7
Ana,García,West,25.50,4,3
`

func TestLoaderLoad(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(DefaultColumns(), nil)

	t.Run("loads a valid CSV dataset", func(t *testing.T) {
		path := writeDataset(t, "vendedores.csv", sampleCSV)

		table, err := loader.Load(ctx, path)
		require.NoError(t, err)

		require.Equal(t, 3, table.Len())
		assert.True(t, table.HasRegion)
		assert.True(t, table.HasUnits)
		assert.True(t, table.HasSales)
		assert.Equal(t, []string{"ANTIGUEDAD"}, table.ExtraHeaders)

		first := table.Rows[0]
		assert.Equal(t, "Ana García", first.Seller)
		assert.Equal(t, "East", first.Region)
		assert.Equal(t, int64(2), first.Units)
		assert.Equal(t, "100", first.Sales.String())
		assert.Equal(t, []string{"3"}, first.Extra)

		assert.Equal(t, "25.5", table.Rows[2].Sales.String())
	})

	t.Run("missing file yields NotFoundError", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "nope.csv"))

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("missing name column yields SchemaError and no table", func(t *testing.T) {
		path := writeDataset(t, "bad.csv", "NOMBRE,REGION,VENTAS TOTALES,UNIDADES VENDIDAS\nAna,East,100,2\n")

		table, err := loader.Load(ctx, path)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"APELLIDO"}, schemaErr.Missing)
		assert.Nil(t, table)
	})

	t.Run("missing both name columns reports both", func(t *testing.T) {
		path := writeDataset(t, "bad.csv", "REGION,VENTAS TOTALES\nEast,100\n")

		_, err := loader.Load(ctx, path)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"NOMBRE", "APELLIDO"}, schemaErr.Missing)
	})

	t.Run("missing region column is not a load failure", func(t *testing.T) {
		path := writeDataset(t, "noregion.csv", "NOMBRE,APELLIDO,VENTAS TOTALES,UNIDADES VENDIDAS\nAna,García,100,2\n")

		table, err := loader.Load(ctx, path)
		require.NoError(t, err)
		assert.False(t, table.HasRegion)
		assert.True(t, table.HasSales)
	})

	t.Run("malformed measure cell yields ParseError with row and column", func(t *testing.T) {
		path := writeDataset(t, "bad.csv", "NOMBRE,APELLIDO,REGION,VENTAS TOTALES,UNIDADES VENDIDAS\nAna,García,East,abc,2\n")

		_, err := loader.Load(ctx, path)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 2, parseErr.Row)
		assert.Equal(t, "VENTAS TOTALES", parseErr.Column)
	})

	t.Run("empty file yields ParseError", func(t *testing.T) {
		path := writeDataset(t, "empty.csv", "")

		_, err := loader.Load(ctx, path)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("tolerates thousands separators and currency sign", func(t *testing.T) {
		path := writeDataset(t, "fmt.csv", "NOMBRE,APELLIDO,REGION,VENTAS TOTALES,UNIDADES VENDIDAS\nAna,García,East,\"$1,250.75\",\"1,000\"\n")

		table, err := loader.Load(ctx, path)
		require.NoError(t, err)
		require.Equal(t, 1, table.Len())
		assert.Equal(t, "1250.75", table.Rows[0].Sales.String())
		assert.Equal(t, int64(1000), table.Rows[0].Units)
	})
}

func TestLoaderLoadSpreadsheet(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(DefaultColumns(), nil)

	path := filepath.Join(t.TempDir(), "vendedores.xlsx")
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]interface{}{
		{"NOMBRE", "APELLIDO", "REGION", "VENTAS TOTALES", "UNIDADES VENDIDAS"},
		{"Ana", "García", "East", 100, 2},
		{"Luis", "Pérez", "West", 50, 1},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	table, err := loader.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Luis Pérez", table.Rows[1].Seller)
	assert.Equal(t, "50", table.Rows[1].Sales.String())
}

func TestLoaderCustomColumns(t *testing.T) {
	columns := ColumnMap{
		FirstName: "FIRST",
		LastName:  "LAST",
		Region:    "AREA",
		Units:     "QTY",
		Sales:     "REVENUE",
		Seller:    "Salesperson",
	}
	loader := NewLoader(columns, nil)
	path := writeDataset(t, "custom.csv", "FIRST,LAST,AREA,REVENUE,QTY\nAna,García,East,100,2\n")

	table, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Ana García", table.Rows[0].Seller)
	assert.Equal(t, "East", table.Rows[0].Region)
}
