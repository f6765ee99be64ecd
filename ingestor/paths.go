package ingestor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Paths holds the fixed storage locations under the project root
type Paths struct {
	Root    string
	DataDir string
	RawDir  string
	ProcDir string
}

// NewPaths computes the storage layout relative to root
func NewPaths(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		Root:    root,
		DataDir: dataDir,
		RawDir:  filepath.Join(dataDir, "raw"),
		ProcDir: filepath.Join(dataDir, "processed", "ingested"),
	}
}

// Ensure creates the raw and processed directories, parents included
func (p *Paths) Ensure(fs afero.Fs) error {
	if err := fs.MkdirAll(p.RawDir, 0o755); err != nil {
		return fmt.Errorf("failed to create raw directory: %v", err)
	}
	if err := fs.MkdirAll(p.ProcDir, 0o755); err != nil {
		return fmt.Errorf("failed to create processed directory: %v", err)
	}
	return nil
}

// RawFile returns the raw-storage path for name
func (p *Paths) RawFile(name string) string {
	return filepath.Join(p.RawDir, name)
}

// ParquetFile returns the standardized output path for a raw file name
func (p *Paths) ParquetFile(rawName string) string {
	return filepath.Join(p.ProcDir, Stem(rawName)+".parquet")
}

// SidecarFile returns the metadata sidecar path for a raw file name
func (p *Paths) SidecarFile(rawName string) string {
	return filepath.Join(p.ProcDir, Stem(rawName)+".meta.json")
}

// Rel expresses path relative to the project root
func (p *Paths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return rel
}

// Stem strips the final extension from a file name
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
