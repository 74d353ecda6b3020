package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/openhelio/solar-motion/internal/domain"
)

func TestReadCSV(t *testing.T) {
	t.Run("plain header", func(t *testing.T) {
		input := "Regiao,ADC\nBrasil,100\nAlemanha,50\n"

		readings, report, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []domain.Reading{
			{Region: "Brasil", ADC: 100},
			{Region: "Alemanha", ADC: 50},
		}, readings)
		assert.Equal(t, 2, report.Rows)
		assert.Zero(t, report.Skipped)
		assert.Empty(t, report.Warnings)
	})

	t.Run("excel export with BOM and accented header", func(t *testing.T) {
		input := "\uFEFFRegião,ADC\nBrasil,1772\n"

		readings, _, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, domain.Reading{Region: "Brasil", ADC: 1772}, readings[0])
	})

	t.Run("header case and padding ignored", func(t *testing.T) {
		input := " REGIAO , adc \nEgito,500\n"

		readings, _, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, "Egito", readings[0].Region)
	})

	t.Run("extra columns ignored", func(t *testing.T) {
		input := "Data,Regiao,ADC,Obs\n2023-06-01,Bahia,250,ok\n"

		readings, _, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, domain.Reading{Region: "Bahia", ADC: 250}, readings[0])
	})

	t.Run("missing region column", func(t *testing.T) {
		input := "Cidade,ADC\nBrasil,100\n"

		_, _, err := ReadCSV(strings.NewReader(input))
		require.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), "Regiao")
	})

	t.Run("missing adc column", func(t *testing.T) {
		input := "Regiao,Valor\nBrasil,100\n"

		_, _, err := ReadCSV(strings.NewReader(input))
		require.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), "ADC")
	})

	t.Run("bad adc rows are skipped with a warning", func(t *testing.T) {
		input := "Regiao,ADC\nBrasil,100\nBrasil,n/a\nBrasil,300\n"

		readings, report, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		require.Len(t, readings, 2)
		assert.Equal(t, 3, report.Rows)
		assert.Equal(t, 1, report.Skipped)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "linha 3")
		assert.Contains(t, report.Warnings[0], "n/a")
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		input := "Regiao,ADC\nBrasil\nBrasil,200\n"

		readings, report, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, 1, report.Skipped)
		assert.Contains(t, report.Warnings[0], "linha 2")
	})

	t.Run("blank region cells survive", func(t *testing.T) {
		input := "Regiao,ADC\n,123\n"

		readings, report, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Empty(t, readings[0].Region)
		assert.Zero(t, report.Skipped)
	})

	t.Run("empty input", func(t *testing.T) {
		readings, report, err := ReadCSV(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, readings)
		assert.Zero(t, report.Rows)
	})

	t.Run("header only", func(t *testing.T) {
		readings, report, err := ReadCSV(strings.NewReader("Regiao,ADC\n"))
		require.NoError(t, err)
		assert.Empty(t, readings)
		assert.Zero(t, report.Rows)
	})
}

func TestReadXLSX(t *testing.T) {
	buildWorkbook := func(t *testing.T, header []string, rows [][]any) *bytes.Buffer {
		t.Helper()

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetList()[0]

		for col, cell := range header {
			axis, err := excelize.CoordinatesToCellName(col+1, 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, axis, cell))
		}
		for rowIdx, row := range rows {
			for col, cell := range row {
				axis, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet, axis, cell))
			}
		}

		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return buf
	}

	t.Run("first sheet with accented header", func(t *testing.T) {
		buf := buildWorkbook(t, []string{"Região", "ADC"}, [][]any{
			{"Brasil", 100},
			{"brasil", 200},
		})

		readings, report, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)

		require.Len(t, readings, 2)
		assert.Equal(t, domain.Reading{Region: "Brasil", ADC: 100}, readings[0])
		assert.Equal(t, domain.Reading{Region: "brasil", ADC: 200}, readings[1])
		assert.Equal(t, 2, report.Rows)
	})

	t.Run("missing column", func(t *testing.T) {
		buf := buildWorkbook(t, []string{"Regiao", "Tensao"}, [][]any{{"Brasil", 1}})

		_, _, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, _, err := ReadXLSX(strings.NewReader("definitely not a zip"))
		require.Error(t, err)
	})
}

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{name: "csv extension", filename: "dados.csv"},
		{name: "uppercase extension", filename: "DADOS.CSV"},
		{name: "unsupported extension", filename: "dados.ods", wantErr: ErrUnsupportedFormat},
		{name: "no extension", filename: "dados", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings, _, err := Read(strings.NewReader("Regiao,ADC\nBrasil,10\n"), tt.filename)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, readings, 1)
		})
	}

	t.Run("xlsx extension dispatches to the workbook reader", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetList()[0]
		require.NoError(t, f.SetCellValue(sheet, "A1", "Regiao"))
		require.NoError(t, f.SetCellValue(sheet, "B1", "ADC"))
		require.NoError(t, f.SetCellValue(sheet, "A2", "Feira"))
		require.NoError(t, f.SetCellValue(sheet, "B2", 42))
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		readings, _, err := Read(bytes.NewReader(buf.Bytes()), "medidas.xlsx")
		require.NoError(t, err)
		require.Len(t, readings, 1)
		assert.Equal(t, "Feira", readings[0].Region)
		assert.Equal(t, 42.0, readings[0].ADC)
	})
}
