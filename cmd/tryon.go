package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"github.com/spf13/cobra"
)

var tryonCmd = &cobra.Command{
	Use:   "tryon",
	Short: "モデル画像に衣服を着せた画像を生成します。",
	RunE:  tryonCommand,
}

func init() {
	tryonCmd.Flags().StringVarP(&opts.ModelFile, "model-image", "m", "", "モデル画像（model コマンドの出力）")
	tryonCmd.Flags().StringVarP(&opts.GarmentFile, "garment", "g", "", "衣服画像ファイル")
	tryonCmd.Flags().StringVar(&opts.GarmentID, "garment-id", "", "ワードローブの衣服 ID（--garment の代わり）")
}

func tryonCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.ModelFile, "model-image"); err != nil {
		return err
	}
	if opts.GarmentFile == "" && opts.GarmentID == "" {
		return fmt.Errorf("--garment または --garment-id を指定してください")
	}

	app, err := buildApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	modelDataURL, err := readDataURL(opts.ModelFile)
	if err != nil {
		return err
	}

	var garment *domain.EncodedImage
	if opts.GarmentID != "" {
		_, garment, err = app.Wardrobe.Fetch(ctx, opts.GarmentID)
	} else {
		garment, err = imgutil.EncodeFile(opts.GarmentFile)
	}
	if err != nil {
		return reportFailure(err, "衣服画像の読み込みに失敗しました")
	}

	dataURL, err := app.Generator.ApplyGarment(ctx, modelDataURL, garment)
	if err != nil {
		return reportFailure(err, "試着画像の生成に失敗しました")
	}

	out := generatedPath("tryon", dataURL)
	if err := writeDataURL(out, dataURL); err != nil {
		return err
	}
	slog.Info("試着画像を保存しました", "path", out)
	return nil
}
