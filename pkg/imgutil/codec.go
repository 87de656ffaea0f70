package imgutil

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
)

var (
	// ErrMalformedDataURL は data URL を EncodedImage に分解できなかったことを表します。
	ErrMalformedDataURL = errors.New("invalid data URL")
	// ErrRead は画像ソースの読み込みに失敗したことを表します。
	ErrRead = errors.New("failed to read image")
)

// ヘッダー部分 "data:image/png;base64" から MIME タイプを抜き出す
var mimeTypePattern = regexp.MustCompile(`:(.*?);`)

// DecodeDataURL は data URL を最初のカンマで分割し、MIME タイプとペイロードに分解します。
func DecodeDataURL(dataURL string) (*domain.EncodedImage, error) {
	segments := strings.SplitN(dataURL, ",", 2)
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: missing comma separator", ErrMalformedDataURL)
	}

	match := mimeTypePattern.FindStringSubmatch(segments[0])
	if len(match) < 2 {
		return nil, fmt.Errorf("%w: could not parse MIME type", ErrMalformedDataURL)
	}

	return &domain.EncodedImage{MimeType: match[1], Data: segments[1]}, nil
}

// EncodeReader は r を最後まで読み込み、宣言された MIME タイプ付きの EncodedImage にします。
// declaredType が空または application/octet-stream の場合は内容から判定します。
func EncodeReader(r io.Reader, declaredType string) (*domain.EncodedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return domain.NewEncodedImage(resolveMimeType(declaredType, data), data), nil
}

// EncodeFile はローカルファイルを読み込みます。MIME タイプは拡張子から決めます。
func EncodeFile(path string) (*domain.EncodedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	return EncodeReader(f, mime.TypeByExtension(filepath.Ext(path)))
}

func resolveMimeType(declared string, data []byte) string {
	mimeType := stripParams(declared)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = stripParams(http.DetectContentType(data))
	}
	return mimeType
}

func stripParams(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// 代表的な画像形式の拡張子
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionFor は MIME タイプに対応するファイル拡張子を返します。不明な形式は ".bin" です。
func ExtensionFor(mimeType string) string {
	mimeType = stripParams(mimeType)
	if ext, ok := imageExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
