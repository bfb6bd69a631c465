package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/render"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one insight for one year",
	Long: `Compute an insight for the selected year and print it as a markdown report.

Unless --plain is given the report is styled for the terminal.

Examples:
  insight show --data SBIN_New_Data.csv --year 2024 --kind top-n
  insight show -d prices.csv --year 2019 --kind correlation --plain`,
	RunE: runShow,
}

var (
	showYear  int
	showKind  string
	showN     int
	showPlain bool
	showStyle string
	showWidth int
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&showYear, "year", "y", 0, "year to analyse (default from config)")
	showCmd.Flags().StringVarP(&showKind, "kind", "k", "", "insight: daily-range, closing-trend, volume, top-n, correlation")
	showCmd.Flags().IntVarP(&showN, "n", "n", 0, "rows for top-n (default from config)")
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "print raw markdown")
	showCmd.Flags().StringVar(&showStyle, "style", "", "glamour style (dark, light, notty); auto when empty")
	showCmd.Flags().IntVar(&showWidth, "width", render.DefaultWidth, "word wrap width")
}

func runShow(cmd *cobra.Command, args []string) error {
	sel, err := selection(showKind, showYear, showN)
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

	md, err := render.Markdown(out)
	if err != nil {
		return err
	}
	if !showPlain {
		if md, err = render.Terminal(md, showStyle, showWidth); err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), md)
	return nil
}
