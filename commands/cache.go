package commands

import (
	"fmt"

	"github.com/penwyp/go-sensor-monitor/internal/data/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent fetch cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached worksheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openDiskCache()
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many worksheets are cached",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openDiskCache()
		if err != nil {
			return err
		}
		defer c.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Cache directory: %s\nEntries: %d\n", expandPath(cacheDir), c.Stats().Entries)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openDiskCache() (*cache.DiskCache, error) {
	dir := expandPath(cacheDir)
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c, err := cache.OpenDiskCache(cache.DiskOptions{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}
