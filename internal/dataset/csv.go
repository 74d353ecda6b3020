package dataset

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/openhelio/solar-motion/internal/domain"
)

// ReadCSV parses a comma-separated measurement file. The first record is the
// header; a UTF-8 BOM on the first cell (Excel's utf-8-sig) is tolerated.
func ReadCSV(r io.Reader) ([]domain.Reading, *Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled per-row, not fatally
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}
