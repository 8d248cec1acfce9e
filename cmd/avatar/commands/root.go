package commands

import (
	"flag"
	"fmt"

	"github.com/phanxgames/avatar"
	"github.com/spf13/cobra"
)

var (
	configPath string
	modelDir   string
)

var rootCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Real-time 2D avatar display",
	Long: `avatar shows a 2D character built from pre-drawn PNG images, one per
pose and expression. Keys switch pose and expression, pose changes play a
short jump animation, and the avatar blinks on its own.

The right half of the window is the virtual-camera output on a chroma-key
background, ready for capture by streaming software.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. Errors are printed by the printer helpers.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&modelDir, "model-dir", "", "directory holding <pose>-<expression>.png images (overrides the config)")
	// glog registers -v, -logtostderr and friends on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// loadConfig returns the configuration selected by the global flags.
func loadConfig() (avatar.Config, error) {
	cfg := avatar.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = avatar.LoadConfig(configPath)
		if err != nil {
			return avatar.Config{}, err
		}
	}
	if modelDir != "" {
		cfg.ModelDir = modelDir
	}
	return cfg, cfg.Validate()
}
