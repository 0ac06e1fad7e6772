package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shalomhq/shalom/internal/config"
	"github.com/shalomhq/shalom/internal/finance"
	"github.com/shalomhq/shalom/internal/store"
)

var (
	exportUser string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's finance and diary data to a JSON file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportUser, "user", "", "user ID to export (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: <user>-finance.json)")
	exportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := db.ExportDataset(cmd.Context(), exportUser)
	if err != nil {
		return fmt.Errorf("export dataset: %w", err)
	}

	data, err := finance.EncodeDataset(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	out := exportOut
	if out == "" {
		out = exportUser + "-finance.json"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("Exported %d transactions, %d goals, %d categories, %d diary entries to %s\n",
		len(ds.Transactions), len(ds.Goals), len(ds.Categories), len(ds.Diary), out)
	return nil
}
