package ingestor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/tablake/ingestr/core"
)

// Ingestor copies source files into raw storage and produces standardized
// parquet outputs plus metadata sidecars.
type Ingestor struct {
	Fs    afero.Fs
	Paths *Paths
}

// Options controls a single ingestion
type Options struct {
	// RawName overrides the raw file name; empty keeps the source name
	RawName string
	// ExcelSheet selects the sheet for Excel inputs; empty uses the first
	ExcelSheet string
	// SkipParquet stores only the raw copy and metadata, parsing nothing
	SkipParquet bool
}

// New creates an Ingestor rooted at root
func New(fs afero.Fs, root string) *Ingestor {
	return &Ingestor{Fs: fs, Paths: NewPaths(root)}
}

// IngestOne runs the single-file sequence: copy into raw storage, checksum,
// optionally read+stamp+write the parquet output, then write the metadata
// sidecar. The raw copy is written before the format is validated, so an
// unsupported extension still leaves a raw copy behind.
func (ing *Ingestor) IngestOne(ctx context.Context, sourcePath string, opts Options) (*Metadata, error) {
	if err := ing.Paths.Ensure(ing.Fs); err != nil {
		return nil, err
	}

	exists, err := afero.Exists(ing.Fs, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %v", sourcePath, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", sourcePath, os.ErrNotExist)
	}

	targetName := opts.RawName
	if targetName == "" {
		targetName = filepath.Base(sourcePath)
	}
	rawPath := ing.Paths.RawFile(targetName)

	if !samePath(sourcePath, rawPath) {
		if err := copyFile(ing.Fs, sourcePath, rawPath); err != nil {
			return nil, err
		}
	}

	checksum, err := sha256File(ing.Fs, rawPath)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		RawFile:      ing.Paths.Rel(rawPath),
		OriginalPath: sourcePath,
		Format:       Sniff(rawPath),
		SHA256:       checksum,
		IngestedAt:   utcNowISO(),
	}

	if !opts.SkipParquet {
		core.Debugf(ctx, "reading %s as %s", rawPath, meta.Format)
		frame, err := ReadAny(ctx, ing.Fs, rawPath, opts.ExcelSheet)
		if err != nil {
			return nil, err
		}
		stamped := frame.WithProvenance(targetName, meta.IngestedAt)

		outParquet := ing.Paths.ParquetFile(targetName)
		if err := WriteParquet(ing.Fs, stamped, outParquet); err != nil {
			return nil, err
		}

		rows := stamped.NumRows()
		meta.Parquet = ing.Paths.Rel(outParquet)
		meta.Rows = &rows
		meta.Columns = stamped.Columns
	}

	metaPath := ing.Paths.SidecarFile(targetName)
	if err := WriteMetadata(ing.Fs, meta, metaPath); err != nil {
		return nil, err
	}
	meta.SidecarPath = ing.Paths.Rel(metaPath)

	core.Infof(ctx, "ingested %s (format=%s)", targetName, meta.Format)
	return meta, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", src, err)
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %v", src, dst, err)
	}
	return nil
}

func sha256File(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %v", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func utcNowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}
