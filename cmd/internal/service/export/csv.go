package export

import (
	"encoding/csv"
	"io"

	"classaction/cmd/internal/domain/entity"
)

func writeCSV(w io.Writer, records []*entity.Shareholder) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		if err := cw.Write(spreadsheetRow(r)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
