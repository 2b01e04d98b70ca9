package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ledwall/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and rendered artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}
			backend, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cache cleared")
			if target := c.cacheLocation(); target != "" {
				printDetail("%s", target)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := c.cacheLocation()
			if target == "" {
				return fmt.Errorf("cache location unavailable")
			}
			fmt.Println(target)
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// cache, a redis:// address for Redis, empty when unknown or disabled.
func (c *CLI) cacheLocation() string {
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return ""
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d", c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB)
	default:
		dir, err := c.cfg.CacheDir()
		if err != nil {
			return ""
		}
		return dir
	}
}
