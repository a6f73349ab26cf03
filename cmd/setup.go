package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/revdash/internal/config"
	"github.com/theirongolddev/revdash/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:         "setup",
	Short:       "First-time setup wizard",
	Annotations: map[string]string{terminalAnnotation: "true"},
	RunE:        runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	vals := tui.NewSetupValues(appConfig)
	form := tui.NewSetupForm(&vals)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg, err := tui.SaveSetup(vals)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Warning: %v\n", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `revdash setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
