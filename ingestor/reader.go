package ingestor

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// ReadAny decodes a raw file into a Frame using the decoder its sniffed
// format selects. excelSheet is only consulted for Excel inputs.
func ReadAny(ctx context.Context, fs afero.Fs, path, excelSheet string) (*Frame, error) {
	switch Sniff(path) {
	case FormatCSV:
		return readCSV(fs, path)
	case FormatJSON:
		return readJSON(fs, path)
	case FormatExcel:
		return readExcel(fs, path, excelSheet)
	case FormatParquet:
		return readParquet(ctx, fs, path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (%s)", filepath.Base(path), filepath.Ext(path))
	}
}

func readCSV(fs afero.Fs, path string) (*Frame, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	// Tolerate ragged rows; missing cells become nulls
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Frame{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %v", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %v", err)
		}
		rows = append(rows, row)
	}

	return frameFromStringRows(header, rows), nil
}

// readJSON decodes a top-level array of uniform objects. Nested values are
// kept as their decoded representation and end up serialized as strings.
func readJSON(fs afero.Fs, path string) (*Frame, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open json %s: %v", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to parse json %s: %v", path, err)
	}

	for _, row := range rows {
		for k, v := range row {
			row[k] = normalizeJSONValue(v)
		}
	}

	return &Frame{Columns: jsonColumnOrder(data, rows), Rows: rows}, nil
}

func normalizeJSONValue(v interface{}) interface{} {
	switch n := v.(type) {
	case json.Number:
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := n.Int64(); err == nil {
				return i
			}
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return s
	case nil, bool, string:
		return v
	default:
		// Nested structures are out of scope; degrade to their JSON text
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// jsonColumnOrder recovers column order from the first object's key order,
// then appends any keys only later rows carry, sorted.
func jsonColumnOrder(data []byte, rows []map[string]interface{}) []string {
	columns := firstObjectKeys(data)

	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var extra []string
	for _, row := range rows {
		for k := range row {
			if !known[k] {
				known[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func firstObjectKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Step into the array, then the first object
	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil
	}
	if !dec.More() {
		return nil
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		// Skip the value, nested or not
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

func readExcel(fs afero.Fs, path, sheet string) (*Frame, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel %s: %v", path, err)
	}
	defer f.Close()

	book, err := excelize.OpenReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse excel %s: %v", path, err)
	}
	defer book.Close()

	if sheet == "" {
		sheet = book.GetSheetName(0)
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q from %s: %v", sheet, path, err)
	}
	if len(rows) == 0 {
		return &Frame{}, nil
	}

	return frameFromStringRows(rows[0], rows[1:]), nil
}
