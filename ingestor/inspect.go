package ingestor

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// Inspector previews standardized parquet outputs through DuckDB
type Inspector struct {
	DB *sql.DB
}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Initialize sets up the DuckDB connection
func (ins *Inspector) Initialize() error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to initialize DuckDB: %v", err)
	}
	ins.DB = db
	return nil
}

// Preview returns the first limit rows of the parquet file at path
func (ins *Inspector) Preview(ctx context.Context, path string, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 10
	}
	escaped := strings.ReplaceAll(path, "'", "''")
	query := fmt.Sprintf("SELECT * FROM read_parquet('%s') LIMIT %d", escaped, limit)

	rows, err := ins.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %v", err)
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}
	return result, nil
}

// Close releases resources
func (ins *Inspector) Close() error {
	if ins.DB != nil {
		return ins.DB.Close()
	}
	return nil
}

// ProcessResultsForJSON prepares preview results for JSON serialization
func ProcessResultsForJSON(results []map[string]interface{}) []map[string]interface{} {
	processedResults := make([]map[string]interface{}, len(results))

	for i, row := range results {
		processedRow := make(map[string]interface{})

		for key, value := range row {
			switch v := value.(type) {
			case nil:
				processedRow[key] = nil
			case int64:
				processedRow[key] = strconv.FormatInt(v, 10)
			case time.Time:
				processedRow[key] = v.Format(time.RFC3339Nano)
			default:
				processedRow[key] = v
			}
		}

		processedResults[i] = processedRow
	}

	return processedResults
}
