package cmd

import (
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/pose"

	"github.com/spf13/cobra"
)

var poseCmd = &cobra.Command{
	Use:   "pose",
	Short: "同じ人物・服装のまま別のポーズの画像を生成します。",
	RunE:  poseCommand,
}

func init() {
	poseCmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "元の試着画像")
	poseCmd.Flags().StringVarP(&opts.Pose, "pose", "p", pose.Instructions[1], "ポーズ指示（自由入力可）")
}

func poseCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.InputFile, "input"); err != nil {
		return err
	}
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	current, err := readDataURL(opts.InputFile)
	if err != nil {
		return err
	}

	dataURL, err := app.Generator.SynthesizePoseVariation(cmd.Context(), current, opts.Pose)
	if err != nil {
		return reportFailure(err, "ポーズの生成に失敗しました")
	}

	out := generatedPath("pose", dataURL)
	if err := writeDataURL(out, dataURL); err != nil {
		return err
	}
	slog.Info("ポーズ画像を保存しました", "path", out, "pose", opts.Pose)
	return nil
}
