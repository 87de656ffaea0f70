package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/gemini-tryon-kit/internal/config"
	"github.com/shouni/gemini-tryon-kit/pkg/lookbook"
	"github.com/shouni/gemini-tryon-kit/pkg/pose"

	"github.com/spf13/cobra"
)

var lookbookCmd = &cobra.Command{
	Use:   "lookbook",
	Short: "1枚の試着画像から全ポーズの画像をまとめて生成します。",
	RunE:  lookbookCommand,
}

func init() {
	f := lookbookCmd.Flags()
	f.StringVarP(&opts.InputFile, "input", "i", "", "元の試着画像")
	f.StringVarP(&opts.OutputDir, "output-dir", "d", config.DefaultOutputDir, "出力ディレクトリ")
	f.IntVarP(&opts.Workers, "workers", "w", config.DefaultLookbookWorkers, "同時に生成する数")
	f.DurationVar(&opts.Interval, "interval", config.DefaultLookbookInterval, "生成リクエストの最小間隔")
}

func lookbookCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.InputFile, "input"); err != nil {
		return err
	}
	app, err := buildApp(cmd)
	if err != nil {
		return err
	}

	base, err := readDataURL(opts.InputFile)
	if err != nil {
		return err
	}

	b, err := lookbook.NewBuilder(app.Generator, opts.Workers, opts.Interval)
	if err != nil {
		return err
	}

	slog.Info("ルックブックの生成を開始します", "poses", len(pose.Instructions), "workers", opts.Workers, "interval", opts.Interval)
	shots, err := b.Build(cmd.Context(), base, pose.Instructions)
	if err != nil {
		return reportFailure(err, "ルックブックの生成に失敗しました")
	}

	for _, shot := range shots {
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("pose_%02d", shot.Index+1)+dataURLExtension(shot.DataURL))
		if err := writeDataURL(path, shot.DataURL); err != nil {
			return err
		}
	}
	slog.Info("ルックブックを保存しました", "dir", opts.OutputDir, "count", len(shots))
	return nil
}
