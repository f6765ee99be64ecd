package ingestor

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameToArrowSchema(t *testing.T) {
	frame := &Frame{
		Columns: []string{"id", "rate", "flag", "label", "empty"},
		Rows: []map[string]interface{}{
			{"id": int64(1), "rate": 0.5, "flag": true, "label": "a", "empty": nil},
			{"id": nil, "rate": int64(2), "flag": nil, "label": nil, "empty": nil},
		},
	}

	schema, record, err := frameToArrow(frame)
	require.NoError(t, err)
	defer record.Release()

	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(0).Type)
	// int mixed with float widens to float
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(1).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(2).Type)
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(3).Type)
	// all-null columns default to string
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(4).Type)
	assert.Equal(t, int64(2), record.NumRows())
}

func TestParquetRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	frame := &Frame{
		Columns: []string{"id", "rate", "flag", "label"},
		Rows: []map[string]interface{}{
			{"id": int64(1), "rate": 0.5, "flag": true, "label": "centro"},
			{"id": int64(2), "rate": nil, "flag": false, "label": "leste"},
			{"id": nil, "rate": 2.25, "flag": nil, "label": nil},
		},
	}

	require.NoError(t, WriteParquet(fs, frame, "data/processed/ingested/t.parquet"))

	got, err := readParquet(context.Background(), fs, "data/processed/ingested/t.parquet")
	require.NoError(t, err)

	assert.Equal(t, frame.Columns, got.Columns)
	require.Equal(t, frame.NumRows(), got.NumRows())
	for i, want := range frame.Rows {
		for _, col := range frame.Columns {
			assert.Equal(t, want[col], got.Rows[i][col], "row %d column %s", i, col)
		}
	}
}

func TestWriteParquetEmptyFrame(t *testing.T) {
	fs := afero.NewMemMapFs()
	frame := &Frame{Columns: []string{"a", "b"}}

	require.NoError(t, WriteParquet(fs, frame, "out/empty.parquet"))

	got, err := readParquet(context.Background(), fs, "out/empty.parquet")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Columns)
	assert.Equal(t, 0, got.NumRows())
}
