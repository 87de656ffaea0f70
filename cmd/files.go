package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/gemini-tryon-kit/pkg/friendly"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

// writeDataURL は data URL の画像を path に書き出します。
func writeDataURL(path, dataURL string) error {
	img, err := imgutil.DecodeDataURL(dataURL)
	if err != nil {
		return err
	}
	data, err := img.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %w", imgutil.ErrMalformedDataURL, err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ファイルの書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}

// readDataURL は画像ファイルを読み込み data URL にします。
func readDataURL(path string) (string, error) {
	img, err := imgutil.EncodeFile(path)
	if err != nil {
		return "", err
	}
	return img.DataURL(), nil
}

func requireFlag(value, name string) error {
	if value == "" {
		return fmt.Errorf("--%s を指定してください", name)
	}
	return nil
}

// generatedPath は生成画像の保存先を返します。--output が未指定なら stem に MIME タイプの拡張子を付けます。
func generatedPath(stem, dataURL string) string {
	if opts.OutputFile != "" {
		return opts.OutputFile
	}
	return stem + dataURLExtension(dataURL)
}

func dataURLExtension(dataURL string) string {
	img, err := imgutil.DecodeDataURL(dataURL)
	if err != nil {
		return imgutil.ExtensionFor("")
	}
	return imgutil.ExtensionFor(img.MimeType)
}

// outputPath は --output が未指定の場合に fallback を返します。
func outputPath(fallback string) string {
	if opts.OutputFile != "" {
		return opts.OutputFile
	}
	return fallback
}

// reportFailure は詳細をログに残し、利用者向けのメッセージをエラーとして返します。
func reportFailure(err error, context string) error {
	slog.Error(context, "error", err)
	return errors.New(friendly.Message(err, context))
}
