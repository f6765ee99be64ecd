package ingestor

import (
	"testing"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Format
	}{
		{name: "csv", path: "data/raw/crimes.csv", want: FormatCSV},
		{name: "csv uppercase", path: "CRIMES.CSV", want: FormatCSV},
		{name: "json", path: "districts.json", want: FormatJSON},
		{name: "geojson", path: "districts.geojson", want: FormatJSON},
		{name: "xlsx", path: "report.xlsx", want: FormatExcel},
		{name: "xls", path: "report.xls", want: FormatExcel},
		{name: "parquet", path: "out/table.parquet", want: FormatParquet},
		{name: "text", path: "notes.txt", want: FormatUnknown},
		{name: "no extension", path: "Makefile", want: FormatUnknown},
		{name: "dotfile", path: ".gitignore", want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.path); got != tt.want {
				t.Errorf("Sniff(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "crimes.csv", want: "crimes"},
		{name: "nested path", in: "data/raw/crimes.csv", want: "crimes"},
		{name: "double extension", in: "crimes.meta.json", want: "crimes.meta"},
		{name: "no extension", in: "crimes", want: "crimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stem(tt.in); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
