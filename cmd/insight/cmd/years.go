package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/insight"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years present in the price table",
	Long: `Print each year found in the price table with its number of trading days.
Years outside the configured selector bounds are marked.

Example:
  insight years --data SBIN_New_Data.csv`,
	RunE: runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, args []string) error {
	svc, closeCache, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	t := svc.Table()
	lo, hi := svc.YearBounds()
	w := cmd.OutOrStdout()
	for _, y := range insight.Years(t) {
		note := ""
		if y < lo || y > hi {
			note = "  (outside selector range)"
		}
		fmt.Fprintf(w, "%d  %d trading days%s\n", y, insight.FilterByYear(t, y).Len(), note)
	}
	return nil
}
