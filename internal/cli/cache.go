package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlabels/pkg/cache"
)

// cacheCommand groups the commands that inspect and empty the file cache.
// Redis entries carry a TTL and are left alone.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the rendered artifact cache",
		Long: `Inspect or clear the file cache of rendered artifacts.

Artifacts cached in redis (CHARTLABELS_REDIS_ADDR) expire on their own and are
not touched by these commands.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached artifacts",
			Args:  cobra.NoArgs,
			RunE:  withFileCache(runCacheClear),
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the number and size of cached artifacts",
			Args:  cobra.NoArgs,
			RunE:  withFileCache(runCacheInfo),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, dir)
				return nil
			},
		},
	)
	return cmd
}

// withFileCache opens the file cache for fn. A missing cache directory is
// reported as an empty cache and not created.
func withFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		dir, err := cacheDir()
		if err != nil {
			return err
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		defer fc.Close()
		return fn(fc)
	}
}

func runCacheClear(fc *cache.FileCache) error {
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if os.Getenv(envRedisAddr) != "" {
		printWarning("%s is set; redis entries are not cleared", envRedisAddr)
	}
	printSuccess("Cleared %s", plural(n, "cached artifact"))
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func runCacheInfo(fc *cache.FileCache) error {
	n, size, err := fc.Stats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}
	printKeyValue("Directory", fc.Dir())
	printKeyValue("Entries", fmt.Sprint(n))
	printKeyValue("Size", humanBytes(size))
	return nil
}

// humanBytes formats n with a binary unit, such as "1.5 KiB".
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
