package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockinsight/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the result cache",
	Long: `Manage the SQLite result cache configured with cache.db_path or --db.

Subcommands:
  list  - List cached results for the current price table
  purge - Drop results computed from any other version of the table`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached results for the current price table",
	RunE:  runCacheList,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop cached results of other table versions",
	RunE:  runCachePurge,
}

var cacheDB string

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)

	cacheCmd.PersistentFlags().StringVar(&cacheDB, "db", "", "SQLite cache path (default from config)")
}

// openCache opens the cache and returns it with the fingerprint of the
// configured price table.
func openCache(cmd *cobra.Command) (*store.SQLite, string, error) {
	if cacheDB != "" {
		cfg.Cache.DBPath = cacheDB
	}
	if cfg.Cache.DBPath == "" {
		return nil, "", fmt.Errorf("no cache configured")
	}

	tbl, err := loadTable(cmd.Context())
	if err != nil {
		return nil, "", err
	}

	db, err := store.NewSQLite(cfg.Cache.DBPath)
	if err != nil {
		return nil, "", err
	}
	return db, tbl.Fingerprint, nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	db, fp, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.List(cmd.Context(), fp)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, e := range entries {
		n := ""
		if e.N > 0 {
			n = fmt.Sprintf(" n=%d", e.N)
		}
		fmt.Fprintf(w, "%s  %d  %-13s%s  %d points  %s\n",
			e.ID, e.Year, e.Kind, n, e.Points, e.Created.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	db, fp, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Purge(cmd.Context(), fp)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Purged %d cached result(s)\n", n)
	return nil
}
