package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturectl/internal/config"
)

// configPath is the --config flag shared by every command.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "gesturectl",
	Short: "Control media playback with hand gestures",
	Long: `gesturectl watches the webcam for hand poses and turns them into
media commands: next, previous, play/pause and volume.`,
	SilenceUsage: true,
	RunE:         runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	addRunFlags(rootCmd)
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file. The default path may be missing; an
// explicit --config may not.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	return config.Load(configPath, !explicit)
}
