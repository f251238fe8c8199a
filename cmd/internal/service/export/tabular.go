package export

import (
	"bufio"
	"html"
	"io"

	"classaction/cmd/internal/domain/entity"
)

// writeTabular renders an HTML table, which spreadsheet applications open as an .xls sheet.
// bufio.Writer keeps the first write error, Flush returns it.
func writeTabular(w io.Writer, records []*entity.Shareholder) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(utf8BOM); err != nil {
		return err
	}

	_, _ = bw.WriteString(`<html><head><meta charset="UTF-8"></head><body><table border="1"><thead><tr>`)
	for _, h := range Header {
		_, _ = bw.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	_, _ = bw.WriteString("</tr></thead><tbody>\n")

	for _, r := range records {
		_, _ = bw.WriteString("<tr>")
		for _, v := range spreadsheetRow(r) {
			_, _ = bw.WriteString("<td>" + html.EscapeString(v) + "</td>")
		}
		_, _ = bw.WriteString("</tr>\n")
	}

	_, _ = bw.WriteString("</tbody></table></body></html>")
	return bw.Flush()
}
