package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one insight as CSV",
	Long: `Compute an insight for the selected year and write it as CSV.
Use --out - to write to stdout.

Example:
  insight export --data SBIN_New_Data.csv --year 2024 --kind volume --out volume-2024.csv`,
	RunE: runExport,
}

var (
	exportYear int
	exportKind string
	exportN    int
	exportOut  string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVarP(&exportYear, "year", "y", 0, "year to analyse (default from config)")
	exportCmd.Flags().StringVarP(&exportKind, "kind", "k", "", "insight to export")
	exportCmd.Flags().IntVarP(&exportN, "n", "n", 0, "rows for top-n (default from config)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output CSV path, - for stdout (required)")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	sel, err := selection(exportKind, exportYear, exportN)
	if err != nil {
		return err
	}

	svc, closeCache, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	out, err := svc.Run(cmd.Context(), sel)
	if err != nil {
		return err
	}
	if out.Empty {
		return errors.New(out.Message)
	}

	if exportOut == "-" {
		return store.WriteCSV(cmd.OutOrStdout(), out.Result)
	}
	if err := store.ExportCSV(exportOut, out.Result); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	log.Info().
		Str("kind", sel.Kind.String()).
		Int("year", sel.Year).
		Int("points", out.Result.Len()).
		Str("out", exportOut).
		Msg("Exported insight")
	return nil
}
