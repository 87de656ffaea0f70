package cmd

import (
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:         "export",
	Short:       "画像を白背景の JPEG として書き出します。",
	Annotations: map[string]string{offlineAnnotation: "true"},
	RunE:        exportCommand,
}

func init() {
	exportCmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "書き出す画像")
}

func exportCommand(cmd *cobra.Command, args []string) error {
	if err := requireFlag(opts.InputFile, "input"); err != nil {
		return err
	}

	src, err := readDataURL(opts.InputFile)
	if err != nil {
		return err
	}

	out, err := imgutil.ExportForDownload(src)
	if err != nil {
		return reportFailure(err, "画像の書き出しに失敗しました")
	}

	path := outputPath(imgutil.ExportFilename)
	if err := writeDataURL(path, out.DataURL()); err != nil {
		return err
	}
	slog.Info("画像を書き出しました", "path", path)
	return nil
}
