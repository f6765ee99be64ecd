package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tablake/ingestr/core"
	"github.com/tablake/ingestr/ingestor"
)

var inspectLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect <parquet-file>",
	Short: "Preview the first rows of an ingested parquet file as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args[0])
	},
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 10, "Maximum number of rows to print.")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(path string) error {
	ctx := core.WithDefaultLogger(context.Background(), uuid.NewString())

	ins := ingestor.NewInspector()
	if err := ins.Initialize(); err != nil {
		return err
	}
	defer ins.Close()

	results, err := ins.Preview(ctx, path, inspectLimit)
	if err != nil {
		return err
	}

	processedResults := ingestor.ProcessResultsForJSON(results)
	jsonData, err := json.MarshalIndent(processedResults, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %v", err)
	}
	fmt.Println(string(jsonData))
	return nil
}
