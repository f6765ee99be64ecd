package ingestor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/spf13/afero"
)

// WriteParquet serializes a frame to a parquet file at path, creating
// parent directories as needed. No row-index column is written.
func WriteParquet(fs afero.Fs, f *Frame, path string) error {
	schema, record, err := frameToArrow(f)
	if err != nil {
		return fmt.Errorf("failed to build arrow record: %v", err)
	}
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}
	out, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %v", err)
	}
	defer out.Close()

	chunkSize := int64(f.NumRows())
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(table, out, chunkSize, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet file: %v", err)
	}
	return nil
}

func readParquet(ctx context.Context, fs afero.Fs, path string) (*Frame, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet %s: %v", path, err)
	}
	defer f.Close()

	reader, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %v", path, err)
	}
	defer reader.Close()

	arrowReader, err := pqarrow.NewFileReader(reader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %v", path, err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet %s: %v", path, err)
	}
	defer table.Release()

	return tableToFrame(table)
}

// frameToArrow converts a frame to Arrow format
func frameToArrow(f *Frame) (*arrow.Schema, arrow.Record, error) {
	fields := make([]arrow.Field, len(f.Columns))
	for i, name := range f.Columns {
		fields[i] = arrow.Field{Name: name, Type: columnArrowType(f, name), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	allocator := memory.DefaultAllocator
	columns := make([]arrow.Array, len(fields))

	for i, field := range fields {
		var builder array.Builder
		switch field.Type.ID() {
		case arrow.INT64:
			builder = array.NewInt64Builder(allocator)
			for _, row := range f.Rows {
				val := row[field.Name]
				if val == nil {
					builder.AppendNull()
					continue
				}
				switch v := val.(type) {
				case int:
					builder.(*array.Int64Builder).Append(int64(v))
				case int64:
					builder.(*array.Int64Builder).Append(v)
				case float64:
					builder.(*array.Int64Builder).Append(int64(v))
				default:
					if num, err := strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64); err == nil {
						builder.(*array.Int64Builder).Append(num)
					} else {
						builder.AppendNull()
					}
				}
			}
		case arrow.FLOAT64:
			builder = array.NewFloat64Builder(allocator)
			for _, row := range f.Rows {
				val := row[field.Name]
				if val == nil {
					builder.AppendNull()
					continue
				}
				switch v := val.(type) {
				case float64:
					builder.(*array.Float64Builder).Append(v)
				case int64:
					builder.(*array.Float64Builder).Append(float64(v))
				case int:
					builder.(*array.Float64Builder).Append(float64(v))
				default:
					if num, err := strconv.ParseFloat(fmt.Sprintf("%v", v), 64); err == nil {
						builder.(*array.Float64Builder).Append(num)
					} else {
						builder.AppendNull()
					}
				}
			}
		case arrow.BOOL:
			builder = array.NewBooleanBuilder(allocator)
			for _, row := range f.Rows {
				val := row[field.Name]
				if val == nil {
					builder.AppendNull()
					continue
				}
				switch v := val.(type) {
				case bool:
					builder.(*array.BooleanBuilder).Append(v)
				default:
					if b, err := strconv.ParseBool(fmt.Sprintf("%v", v)); err == nil {
						builder.(*array.BooleanBuilder).Append(b)
					} else {
						builder.AppendNull()
					}
				}
			}
		case arrow.TIMESTAMP:
			builder = array.NewTimestampBuilder(allocator, field.Type.(*arrow.TimestampType))
			for _, row := range f.Rows {
				val := row[field.Name]
				if t, ok := val.(time.Time); ok {
					builder.(*array.TimestampBuilder).Append(arrow.Timestamp(t.UTC().UnixMicro()))
				} else {
					builder.AppendNull()
				}
			}
		default:
			builder = array.NewStringBuilder(allocator)
			for _, row := range f.Rows {
				val := row[field.Name]
				if val == nil {
					builder.AppendNull()
					continue
				}
				builder.(*array.StringBuilder).Append(fmt.Sprintf("%v", val))
			}
		}
		columns[i] = builder.NewArray()
		builder.Release()
	}

	record := array.NewRecord(schema, columns, int64(f.NumRows()))
	for _, col := range columns {
		col.Release()
	}
	return schema, record, nil
}

// columnArrowType picks the Arrow type from the first non-null cell,
// widening int to float when the column mixes both. Columns with no
// values default to string.
func columnArrowType(f *Frame, name string) arrow.DataType {
	var dt arrow.DataType
	for _, row := range f.Rows {
		switch row[name].(type) {
		case nil:
			continue
		case int, int64:
			if dt == nil {
				dt = arrow.PrimitiveTypes.Int64
			}
		case float64:
			if dt == nil || dt == arrow.PrimitiveTypes.Int64 {
				dt = arrow.PrimitiveTypes.Float64
			}
		case bool:
			if dt == nil {
				dt = arrow.FixedWidthTypes.Boolean
			}
		case time.Time:
			if dt == nil {
				dt = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
			}
		default:
			return arrow.BinaryTypes.String
		}
	}
	if dt == nil {
		return arrow.BinaryTypes.String
	}
	return dt
}

func tableToFrame(table arrow.Table) (*Frame, error) {
	fields := table.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name
	}

	rows := make([]map[string]interface{}, table.NumRows())
	for i := range rows {
		rows[i] = make(map[string]interface{}, len(columns))
	}

	for i := 0; i < int(table.NumCols()); i++ {
		name := columns[i]
		offset := 0
		for _, chunk := range table.Column(i).Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				rows[offset+j][name] = arrowValue(chunk, j)
			}
			offset += chunk.Len()
		}
	}

	return &Frame{Columns: columns, Rows: rows}, nil
}

func arrowValue(arr arrow.Array, i int) interface{} {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.Timestamp:
		return a.Value(i).ToTime(a.DataType().(*arrow.TimestampType).Unit).UTC()
	default:
		return arr.ValueStr(i)
	}
}
