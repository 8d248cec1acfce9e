package commands

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/phanxgames/avatar"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

var (
	framesFrom int
	framesTo   int
	framesOut  string
	sheetScale float64
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Write the frames of a pose transition to PNG files",
	Long: `Synthesize the transition between two poses without opening a window and
write every frame as frame_NN.png, plus sheet.png with all frames side by
side, into the output directory.`,
	RunE: runFrames,
}

func init() {
	framesCmd.Flags().IntVar(&framesFrom, "from", 0, "start pose")
	framesCmd.Flags().IntVar(&framesTo, "to", 0, "end pose")
	framesCmd.Flags().StringVarP(&framesOut, "out", "o", "frames", "output directory")
	framesCmd.Flags().Float64Var(&sheetScale, "sheet-scale", 0.5, "scale of each frame in the contact sheet")
	framesCmd.MarkFlagRequired("from")
	framesCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(framesCmd)
}

func runFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return printError("Invalid configuration", err.Error())
	}
	from, to := avatar.PoseID(framesFrom), avatar.PoseID(framesTo)
	if from == to {
		return printError("Invalid poses", "--from and --to must name different poses")
	}

	synth := avatar.NewSynthesizer(avatar.NewImageStore(avatar.NewDirLoader(cfg.ModelDir)), cfg.TransitionConfig())
	frames := synth.Frames(from, to)
	if len(frames) == 0 {
		return printError("No frames", fmt.Sprintf("pose %d or %d has no neutral image in %s", from, to, cfg.ModelDir))
	}

	sheet, err := writeFrames(framesOut, frames, sheetScale)
	if err != nil {
		return printError("Failed to write frames", err.Error())
	}
	success(cmd.OutOrStdout(), "Wrote %d frames for %d->%d to %s", len(frames), from, to, framesOut)
	success(cmd.OutOrStdout(), "Contact sheet: %s", sheet)
	return nil
}

// writeFrames saves each frame as dir/frame_NN.png and a contact sheet of
// all frames scaled by scale as dir/sheet.png. It returns the sheet path.
func writeFrames(dir string, frames []avatar.TransitionFrame, scale float64) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("no frames")
	}
	if scale <= 0 {
		return "", fmt.Errorf("sheet scale must be > 0, got %v", scale)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	for i, f := range frames {
		if err := avatar.SavePNG(filepath.Join(dir, fmt.Sprintf("frame_%02d.png", i)), f.Image); err != nil {
			return "", err
		}
	}

	sheet := contactSheet(frames, scale)
	path := filepath.Join(dir, "sheet.png")
	if err := avatar.SavePNG(path, sheet); err != nil {
		return "", err
	}
	return path, nil
}

// contactSheet lays the frames out left to right, each scaled by scale.
func contactSheet(frames []avatar.TransitionFrame, scale float64) *image.RGBA {
	b := frames[0].Image.Bounds()
	fw := max(int(float64(b.Dx())*scale), 1)
	fh := max(int(float64(b.Dy())*scale), 1)

	sheet := image.NewRGBA(image.Rect(0, 0, fw*len(frames), fh))
	for i, f := range frames {
		dst := image.Rect(i*fw, 0, (i+1)*fw, fh)
		draw.CatmullRom.Scale(sheet, dst, f.Image, f.Image.Bounds(), draw.Src, nil)
	}
	return sheet
}
