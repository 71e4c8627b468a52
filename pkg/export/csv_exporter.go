package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Dataset defines tabular export content. Row values are looked up by header
// name so field order always follows Headers.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into quoted CSV bytes: one header row,
// one row per record, every field wrapped in double quotes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	buf.WriteString(strings.Join(data.Headers, ","))
	for _, row := range data.Rows {
		buf.WriteByte('\n')
		fields := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			fields[i] = quote(row[header])
		}
		buf.WriteString(strings.Join(fields, ","))
	}
	return buf.Bytes(), nil
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
