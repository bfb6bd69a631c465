package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/config"
	"github.com/rustyeddy/stockinsight/insight"
	"github.com/rustyeddy/stockinsight/market"
	"github.com/rustyeddy/stockinsight/pkg/logger"
	"github.com/rustyeddy/stockinsight/source"
	"github.com/rustyeddy/stockinsight/store"
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Year by year insights over a daily stock price table",
	Long: `Insight loads a daily OHLCV price table (Date, Open, High, Low, Close, Volume)
and derives per-year views from it:

  - daily-range    High - Low per trading day
  - closing-trend  closing price per trading day
  - volume         traded volume per trading day
  - top-n          the N highest closing days of the year
  - correlation    Pearson correlation between High, Low and Volume

The table can come from a file, stdin ("-"), an http(s) URL or s3://bucket/key.
Results can be shown in the terminal, exported as CSV or served over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	logLevel string
	pretty   bool
	dataRef  string

	cfg *config.Config
	log = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&pretty, "pretty", false, "human readable log output")
	pf.StringVarP(&dataRef, "data", "d", "", "price CSV: path, -, http(s) URL or s3://bucket/key")
}

// setup loads configuration, applies global flags and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if pretty {
		c.Log.Pretty = true
	}
	if dataRef != "" {
		c.Data.Source = dataRef
	}
	cfg = c

	log = logger.New(logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty, Out: cmd.ErrOrStderr()})
	logger.SetGlobalLogger(log)
	return nil
}

// loadTable reads the configured price table.
func loadTable(ctx context.Context) (*market.PriceTable, error) {
	ref := cfg.Data.Source
	rc, err := source.Open(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	defer rc.Close()

	tbl, err := market.Load(rc, source.Name(ref))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	log.Info().
		Str("source", tbl.Source).
		Int("records", tbl.Len()).
		Str("fingerprint", tbl.Fingerprint).
		Msg("Loaded price table")
	return tbl, nil
}

// openService loads the configured price table and wraps it in a Service.
// The returned func releases the result cache, if one is configured.
func openService(ctx context.Context) (*insight.Service, func() error, error) {
	tbl, err := loadTable(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []insight.Option{
		insight.WithLogger(log),
		insight.WithYearBounds(cfg.Insight.MinYear, cfg.Insight.MaxYear),
	}
	closer := func() error { return nil }

	if cfg.Cache.DBPath != "" {
		db, err := store.NewSQLite(cfg.Cache.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		opts = append(opts, insight.WithCache(db))
		closer = db.Close
	}

	return insight.NewService(tbl, opts...), closer, nil
}

// selection fills unset selector values from the configuration.
func selection(kind string, year, n int) (insight.Selection, error) {
	if kind == "" {
		kind = cfg.Insight.DefaultKind
	}
	k, err := insight.ParseKind(kind)
	if err != nil {
		return insight.Selection{}, err
	}
	if year == 0 {
		year = cfg.Insight.DefaultYear
	}
	if n == 0 && k == insight.TopN {
		n = cfg.Insight.TopN
	}
	return insight.Selection{Year: year, Kind: k, N: n}, nil
}
