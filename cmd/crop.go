package cmd

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"github.com/spf13/cobra"
)

var cropCmd = &cobra.Command{
	Use:         "crop",
	Short:       "画像を切り抜いて JPEG で保存します。",
	Long:        "切り抜き枠は表示サイズ（--rendered-width/--rendered-height）上の座標で指定します。枠を省略すると全幅・上から70%を切り抜きます。",
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE:        cropCommand,
}

func init() {
	f := cropCmd.Flags()
	f.StringVarP(&opts.InputFile, "input", "i", "", "切り抜く画像")
	f.Float64Var(&opts.RenderedWidth, "rendered-width", 0, "表示幅（未指定なら元画像の幅）")
	f.Float64Var(&opts.RenderedHeight, "rendered-height", 0, "表示高さ（未指定なら元画像の高さ）")
	f.Float64Var(&opts.CropX, "x", 0, "切り抜き枠の左端")
	f.Float64Var(&opts.CropY, "y", 0, "切り抜き枠の上端")
	f.Float64Var(&opts.CropWidth, "width", 0, "切り抜き枠の幅")
	f.Float64Var(&opts.CropHeight, "height", 0, "切り抜き枠の高さ")
}

func cropCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.InputFile, "input"); err != nil {
		return err
	}

	data, err := os.ReadFile(opts.InputFile)
	if err != nil {
		return fmt.Errorf("%w: %w", imgutil.ErrRead, err)
	}

	displayed, err := displayedImage(data, opts.RenderedWidth, opts.RenderedHeight)
	if err != nil {
		return err
	}

	region := domain.CropRegion{X: opts.CropX, Y: opts.CropY, Width: opts.CropWidth, Height: opts.CropHeight}
	if !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height") {
		region = imgutil.DefaultCropRegion(displayed.RenderedWidth, displayed.RenderedHeight)
	}

	cropped, err := imgutil.CropToRegion(displayed, region)
	if err != nil {
		return reportFailure(err, "画像の切り抜きに失敗しました")
	}
	if cropped == nil {
		return fmt.Errorf("切り抜き枠の幅と高さは0より大きくしてください")
	}

	out := outputPath("crop.jpg")
	if err := writeDataURL(out, cropped.DataURL()); err != nil {
		return err
	}
	slog.Info("切り抜いた画像を保存しました", "path", out)
	return nil
}

// displayedImage は表示サイズが未指定なら元画像のサイズで表示されているものとして扱います。
func displayedImage(data []byte, width, height float64) (imgutil.DisplayedImage, error) {
	if width <= 0 || height <= 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return imgutil.DisplayedImage{}, fmt.Errorf("画像サイズの取得に失敗しました: %w", err)
		}
		width, height = float64(cfg.Width), float64(cfg.Height)
	}
	return imgutil.DisplayedImage{Data: data, RenderedWidth: width, RenderedHeight: height}, nil
}
