package ingestor

import (
	"strconv"
	"strings"
)

// Provenance column names appended to every standardized output
const (
	SourceFileColumn = "source_file"
	IngestedAtColumn = "ingested_at"
)

// Frame is the in-memory tabular payload: an ordered set of named columns
// over rows of typed cells (string, int64, float64, bool or nil).
type Frame struct {
	Columns []string
	Rows    []map[string]interface{}
}

// NumRows returns the row count
func (f *Frame) NumRows() int {
	return len(f.Rows)
}

// WithProvenance returns a copy of the frame with the source_file and
// ingested_at columns appended last, holding the same value on every row.
// The receiver is left untouched.
func (f *Frame) WithProvenance(sourceFile, ingestedAt string) *Frame {
	columns := make([]string, 0, len(f.Columns)+2)
	columns = append(columns, f.Columns...)
	columns = append(columns, SourceFileColumn, IngestedAtColumn)

	rows := make([]map[string]interface{}, len(f.Rows))
	for i, row := range f.Rows {
		stamped := make(map[string]interface{}, len(row)+2)
		for k, v := range row {
			stamped[k] = v
		}
		stamped[SourceFileColumn] = sourceFile
		stamped[IngestedAtColumn] = ingestedAt
		rows[i] = stamped
	}

	return &Frame{Columns: columns, Rows: rows}
}

// cell kinds used during type inference over string-valued inputs
type cellKind int

const (
	kindString cellKind = iota
	kindInt
	kindFloat
	kindBool
)

// frameFromStringRows builds a typed Frame from header + string rows, the
// shape CSV and Excel decoders produce. Empty cells become nulls; a column
// where every non-empty cell parses as the same scalar kind gets that kind,
// anything mixed stays string.
func frameFromStringRows(header []string, rows [][]string) *Frame {
	kinds := make([]cellKind, len(header))
	for col := range header {
		kinds[col] = inferColumnKind(rows, col)
	}

	frameRows := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		cells := make(map[string]interface{}, len(header))
		for col, name := range header {
			var raw string
			if col < len(row) {
				raw = row[col]
			}
			cells[name] = parseCell(raw, kinds[col])
		}
		frameRows[i] = cells
	}

	columns := make([]string, len(header))
	copy(columns, header)
	return &Frame{Columns: columns, Rows: frameRows}
}

func inferColumnKind(rows [][]string, col int) cellKind {
	canInt, canFloat, canBool := true, true, true
	seen := false

	for _, row := range rows {
		if col >= len(row) || row[col] == "" {
			continue
		}
		seen = true
		v := row[col]
		if canInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				canInt = false
			}
		}
		if canFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				canFloat = false
			}
		}
		if canBool {
			lower := strings.ToLower(v)
			if lower != "true" && lower != "false" {
				canBool = false
			}
		}
		if !canInt && !canFloat && !canBool {
			return kindString
		}
	}

	if !seen {
		return kindString
	}
	switch {
	case canBool:
		return kindBool
	case canInt:
		return kindInt
	case canFloat:
		return kindFloat
	default:
		return kindString
	}
}

func parseCell(raw string, kind cellKind) interface{} {
	if raw == "" {
		return nil
	}
	switch kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return raw
		}
		return n
	case kindFloat:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return n
	case kindBool:
		return strings.EqualFold(raw, "true")
	default:
		return raw
	}
}
