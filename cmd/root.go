package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tablake/ingestr/config"
	"github.com/tablake/ingestr/core"
	"github.com/tablake/ingestr/ingestor"
)

var (
	inputFlags  []string
	urlFlags    []string
	nameFlags   []string
	excelSheet  string
	skipParquet bool
)

var rootCmd = &cobra.Command{
	Use:   "ingestr",
	Short: "Ingest datasets into raw storage and standardized parquet outputs.",
	Long: `ingestr copies local files or downloaded URLs into data/raw/, converts
CSV/JSON/Excel/Parquet inputs into standardized parquet outputs under
data/processed/ingested/, and records provenance metadata (checksum,
source, timestamp, row and column counts) in a JSON sidecar per file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runIngest,
}

// errUsage marks command-line validation failures; Execute maps it to exit code 2
var errUsage = errors.New("invalid usage")

func init() {
	rootCmd.Flags().StringArrayVar(&inputFlags, "input", nil, "Local file paths to ingest (CSV/JSON/XLSX/Parquet, repeatable).")
	rootCmd.Flags().StringArrayVar(&urlFlags, "url", nil, "URL to download and ingest (repeatable).")
	rootCmd.Flags().StringArrayVar(&nameFlags, "name", nil, "Filename for each --url (repeatable, same count).")
	rootCmd.Flags().StringVar(&excelSheet, "excel-sheet", "", "Excel sheet name (if ingesting .xlsx).")
	rootCmd.Flags().BoolVar(&skipParquet, "skip-parquet", false, "Only store raw + metadata; do not create parquet.")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Usage validation happens before any I/O
	if len(nameFlags) > 0 && len(nameFlags) != len(urlFlags) {
		fmt.Fprintln(cmd.ErrOrStderr(), "ERROR: --name must be provided the same number of times as --url (or not used).")
		return errUsage
	}
	if len(urlFlags) == 0 && len(inputFlags) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to ingest. Use --input <file> or --url <link>.")
		return errUsage
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %v", err)
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %v", err)
	}

	ctx := core.WithDefaultLogger(context.Background(), uuid.NewString())
	fs := afero.NewOsFs()
	ing := ingestor.New(fs, config.GetRootDir(cfg))

	var fetcher core.Fetcher
	if cfg.Offline {
		fetcher = ingestor.DisabledFetcher{}
	} else {
		fetcher = ingestor.NewHTTPFetcher(fs, cfg.FetchTimeout)
	}

	opts := ingestor.Options{ExcelSheet: excelSheet, SkipParquet: skipParquet}

	for i, url := range urlFlags {
		name := outputName(url, i)
		if len(nameFlags) > 0 {
			name = nameFlags[i]
		}
		dest := ing.Paths.RawFile(name)
		fmt.Printf("Downloading: %s -> %s\n", url, dest)
		if err := fetcher.Fetch(ctx, url, dest); err != nil {
			return err
		}

		urlOpts := opts
		urlOpts.RawName = name
		meta, err := ing.IngestOne(ctx, dest, urlOpts)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Ingested %s (meta: %s)", name, meta.SidecarPath)
	}

	for _, input := range inputFlags {
		fmt.Printf("Ingesting local file: %s\n", input)
		meta, err := ing.IngestOne(ctx, input, opts)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("Ingested %s (meta: %s)", localName(input), meta.SidecarPath)
	}

	fmt.Printf("\nDone.\n- Raw: %s\n- Processed: %s\n", ing.Paths.RawDir, ing.Paths.ProcDir)
	return nil
}

// localName is the display name for a local input: its OS-path basename
func localName(input string) string {
	return filepath.Base(input)
}

// outputName derives a raw file name from a URL: the basename of the path
// with any query string stripped, or a positional fallback.
func outputName(rawURL string, index int) string {
	trimmed := rawURL
	if i := strings.Index(trimmed, "?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("download_%d", index)
	}
	return name
}
