package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"
)

// Dataset defines tabular export content. Cells may span several lines.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// NewCSVExporterWithDelimiter uses the first rune of delimiter as separator.
// Spreadsheets in Spanish locales expect ";". Blank or invalid input falls back to a comma.
func NewCSVExporterWithDelimiter(delimiter string) *CSVExporter {
	r, _ := utf8.DecodeRuneInString(delimiter)
	switch r {
	case utf8.RuneError, '"', '\r', '\n':
		r = ','
	}
	return &CSVExporter{comma: r}
}

// ContentType reports the MIME type of rendered output.
func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Render produces CSV encoded bytes for the dataset. The title is not part of CSV output.
func (e *CSVExporter) Render(data Dataset, _ string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	// Leading UTF-8 BOM for spreadsheet imports.
	buf.WriteString("\ufeff")
	writer := csv.NewWriter(buf)
	if e.comma != 0 {
		writer.Comma = e.comma
	}
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
