package ingestor

import (
	"path/filepath"
	"strings"
)

// Format enumerates the recognized dataset formats
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatExcel   Format = "excel"
	FormatParquet Format = "parquet"
	FormatUnknown Format = "unknown"
)

// Sniff maps a file path's extension to a Format. No content inspection.
func Sniff(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FormatCSV
	case ".json", ".geojson":
		return FormatJSON
	case ".xlsx", ".xls":
		return FormatExcel
	case ".parquet":
		return FormatParquet
	default:
		return FormatUnknown
	}
}
