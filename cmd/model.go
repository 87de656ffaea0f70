package cmd

import (
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "写真からスタジオ撮影風のモデル画像を生成します。",
	RunE:  modelCommand,
}

func init() {
	modelCmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "利用者の写真")
}

func modelCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.InputFile, "input"); err != nil {
		return err
	}
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	photo, err := imgutil.EncodeFile(opts.InputFile)
	if err != nil {
		return err
	}

	dataURL, err := app.Generator.SynthesizeBaseModel(cmd.Context(), photo)
	if err != nil {
		return reportFailure(err, "モデル画像の生成に失敗しました")
	}

	out := generatedPath("model", dataURL)
	if err := writeDataURL(out, dataURL); err != nil {
		return err
	}
	slog.Info("モデル画像を保存しました", "path", out)
	return nil
}
