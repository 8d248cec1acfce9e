package commands

import (
	"errors"
	"flag"

	"github.com/phanxgames/avatar"
	"github.com/spf13/cobra"
)

var (
	scriptPath string
	debugLog   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the avatar window",
	Long: `Open the avatar window with the control panel on the left and the
virtual-camera output on the right.

Controls:
  binding keys  switch pose or expression (see the panel)
  G             flip horizontally
  O             close or reopen the output surface
  P             save a screenshot of the output
  ESC           quit

Use --script to replay a JSON input script instead of typing.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&scriptPath, "script", "", "JSON input script to replay")
	runCmd.Flags().BoolVar(&debugLog, "debug", false, "log state changes (same as -v=1)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if debugLog {
		flag.Set("v", "1")
	}
	cfg, err := loadConfig()
	if err != nil {
		return printError("Invalid configuration", err.Error())
	}

	var opts avatar.AppOptions
	if scriptPath != "" {
		opts.Script, err = avatar.LoadScript(scriptPath)
		if err != nil {
			return printError("Invalid input script", err.Error())
		}
	}

	app, err := avatar.NewApp(cfg, opts)
	if err != nil {
		if errors.Is(err, avatar.ErrNoFallbackAsset) {
			return printError("Missing fallback image", err.Error(),
				"Check --model-dir or run 'avatar check' to list available images.")
		}
		return printError("Failed to start", err.Error())
	}
	return avatar.Run(app, avatar.RunConfig{Title: "Avatar"})
}
