// Package cmd implements the revdash CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	if env := os.Getenv(config.DataFileEnv); env != "" {
		fmt.Printf("    Data file:    %s (from $%s)\n", env, config.DataFileEnv)
	} else if cfg.General.DataFile != "" {
		fmt.Printf("    Data file:    %s\n", cfg.General.DataFile)
	} else {
		fmt.Printf("    Data file:    %s (resolved)\n", dataPath())
	}
	fmt.Printf("    Default view: %s\n", cfg.General.DefaultView)
	fmt.Println()

	fmt.Println("  [Map]")
	fmt.Printf("    Enabled:     %v\n", cfg.Map.Enabled)
	fmt.Printf("    GeoJSON URL: %s\n", cfg.Map.GeoJSONURL)
	fmt.Printf("    Cache hours: %d\n", cfg.Map.CacheHours)
	fmt.Printf("    Timeout:     %ds\n", cfg.Map.TimeoutSec)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Printf("    File:  %s\n", cfg.Log.File)
	}
	fmt.Printf("    JSON:  %v\n", cfg.Log.JSON)
	fmt.Println()

	fmt.Printf("  Cache: %s\n", pipeline.CachePath())
	fmt.Println("  Run `revdash setup` to reconfigure.")
	return nil
}
