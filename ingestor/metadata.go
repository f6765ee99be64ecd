package ingestor

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Metadata is the provenance record written as a JSON sidecar next to each
// standardized output. Parquet, Rows and Columns are present only when
// conversion was not skipped.
type Metadata struct {
	RawFile      string   `json:"raw_file"`
	OriginalPath string   `json:"original_path"`
	Format       Format   `json:"format"`
	SHA256       string   `json:"sha256"`
	IngestedAt   string   `json:"ingested_at"`
	Parquet      string   `json:"parquet,omitempty"`
	Rows         *int     `json:"rows,omitempty"`
	Columns      []string `json:"columns,omitempty"`

	// SidecarPath is where the record itself was written; not serialized
	SidecarPath string `json:"-"`
}

// WriteMetadata serializes meta to path as pretty-printed UTF-8 JSON with a
// two-space indent, non-ASCII characters kept literal. Parent directories
// are created as needed; an existing file is replaced.
func WriteMetadata(fs afero.Fs, meta *Metadata, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %v", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("failed to write metadata file: %v", err)
	}
	return nil
}
