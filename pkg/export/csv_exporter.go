package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders tagged structs into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render marshals a slice of structs carrying `csv` tags. An empty slice still yields the header row.
func (e *CSVExporter) Render(rows interface{}) ([]byte, error) {
	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}
