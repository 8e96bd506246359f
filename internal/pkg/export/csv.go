package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV serialises export rows to CSV.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(Headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
