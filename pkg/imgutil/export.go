package imgutil

import (
	"fmt"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
)

// ExportFilename はダウンロード・共有時のファイル名です。
const ExportFilename = "essayage-virtuel.jpg"

// ExportForDownload は data URL の画像を白背景に描画し、JPEG として返します。
// ダウンロードと共有はどちらもこの結果を使うため、出力は常に同一になります。
func ExportForDownload(dataURL string) (*domain.EncodedImage, error) {
	src, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	raw, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDataURL, err)
	}

	out, err := CompressToJPEG(raw, JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("書き出し用画像の生成に失敗しました: %w", err)
	}
	return domain.NewEncodedImage("image/jpeg", out), nil
}
