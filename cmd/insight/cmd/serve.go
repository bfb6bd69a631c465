package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve insights over HTTP",
	Long: `Load the price table once and serve insights as JSON.

Endpoints:
  GET /healthz
  GET /api/dataset
  GET /api/kinds
  GET /api/insights/{kind}?year=YYYY&n=N

Example:
  insight serve --data SBIN_New_Data.csv --addr :8080 --cache insight.db`,
	RunE: runServe,
}

var (
	serveAddr  string
	serveCache string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveCache, "cache", "", "SQLite result cache path")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveCache != "" {
		cfg.Cache.DBPath = serveCache
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeCache, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	read, write, err := cfg.Server.Timeouts()
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		Log:            log,
		Service:        svc,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    read,
		WriteTimeout:   write,
		DefaultYear:    cfg.Insight.DefaultYear,
	})
	return srv.Run(ctx)
}
