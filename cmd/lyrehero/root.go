package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lyrehero",
		Short: "A real-time pitch tutor for the 19-string lyre harp",
	}
	root.AddCommand(playCmd())
	root.AddCommand(calibrateCmd())
	return root
}

// configPath returns the on-disk location of the persisted EngineConfig,
// $HOME/.lyrehero/config.json, creating the containing directory as
// needed.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".lyrehero")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
