package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shalomhq/shalom/internal/config"
	"github.com/shalomhq/shalom/internal/finance"
	"github.com/shalomhq/shalom/internal/store"
)

var (
	importUser string
	importIn   string
	importYes  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a user's finance and diary data, replacing what is stored",
	Long: `Import reads a previously exported JSON file and replaces ALL of the
user's finance and diary data with its contents. Arrays missing from the
file are treated as empty, so importing a partial file deletes the rest.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importUser, "user", "", "user ID to import into (required)")
	importCmd.Flags().StringVar(&importIn, "in", "", "input file (required)")
	importCmd.Flags().BoolVar(&importYes, "yes", false, "skip the confirmation prompt")
	importCmd.MarkFlagRequired("user")
	importCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(importIn)
	if err != nil {
		return fmt.Errorf("read %s: %w", importIn, err)
	}

	ds, err := finance.DecodeDataset(data)
	if err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}

	if !importYes {
		fmt.Printf("This replaces ALL finance and diary data for user %q with %d transactions, %d goals, %d categories, %d diary entries.\n",
			importUser, len(ds.Transactions), len(ds.Goals), len(ds.Categories), len(ds.Diary))
		fmt.Print("Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReplaceFinanceData(cmd.Context(), importUser, ds); err != nil {
		return fmt.Errorf("replace data: %w", err)
	}

	fmt.Printf("Imported %d transactions, %d goals, %d categories, %d diary entries for user %q\n",
		len(ds.Transactions), len(ds.Goals), len(ds.Categories), len(ds.Diary), importUser)
	return nil
}
