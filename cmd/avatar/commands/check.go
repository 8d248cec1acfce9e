package commands

import (
	"fmt"
	"io"

	"github.com/phanxgames/avatar"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List which pose and expression images are available",
	Long: `Load every configured pose and expression image from the model directory
and report the missing ones. Fails when the default pose's neutral image,
which every other missing image falls back to, cannot be loaded.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return printError("Invalid configuration", err.Error())
	}
	store := avatar.NewImageStore(avatar.NewDirLoader(cfg.ModelDir))
	if _, err := checkAssets(cmd.OutOrStdout(), cfg, store); err != nil {
		return printError("Missing fallback image", err.Error(),
			fmt.Sprintf("Add %s to %s.", store.Path(avatar.ImageKey{Pose: cfg.DefaultPose, Expression: avatar.ExpressionNeutral}), cfg.ModelDir))
	}
	return nil
}

// checkAssets loads every configured image, prints a per-pose report to w
// and returns the missing keys. The error wraps avatar.ErrNoFallbackAsset
// when the default neutral image is missing.
func checkAssets(w io.Writer, cfg avatar.Config, store *avatar.ImageStore) ([]avatar.ImageKey, error) {
	keys := cfg.ImageKeys()
	missing := lo.Filter(keys, func(k avatar.ImageKey, _ int) bool {
		_, ok := store.Get(k.Pose, k.Expression)
		return !ok
	})
	missingByPose := lo.GroupBy(missing, func(k avatar.ImageKey) avatar.PoseID { return k.Pose })

	heading(w, fmt.Sprintf("Images in %s", cfg.ModelDir))
	for _, pose := range cfg.PoseIDs() {
		gone := missingByPose[pose]
		label := fmt.Sprintf("Pose %d (%s): %d/%d", pose, cfg.PoseName(pose), cfg.Expressions-len(gone), cfg.Expressions)
		if len(gone) == 0 {
			success(w, "%s", label)
			continue
		}
		names := lo.Map(gone, func(k avatar.ImageKey, _ int) string { return store.Path(k) })
		warning(w, "%s, missing %v", label, names)
		if lo.Contains(gone, avatar.ImageKey{Pose: pose, Expression: avatar.ExpressionNeutral}) {
			warning(w, "Pose %d has no neutral image: transitions to and from it are skipped", pose)
		}
	}

	fallback := avatar.ImageKey{Pose: cfg.DefaultPose, Expression: avatar.ExpressionNeutral}
	if lo.Contains(missing, fallback) {
		return missing, fmt.Errorf("%w (looked for %s)", avatar.ErrNoFallbackAsset, store.Path(fallback))
	}
	if len(missing) == 0 {
		success(w, "All %d images present", len(keys))
	}
	return missing, nil
}
