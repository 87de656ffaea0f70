package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

var (
	// ErrGarmentNotFound はワードローブに該当 ID の衣服がないことを表します。
	ErrGarmentNotFound = errors.New("garment not found")
	// ErrNotAnImage は取得したデータが画像ではないことを表します。
	ErrNotAnImage = errors.New("fetched data is not an image")
)

// Wardrobe は URL で登録された既定の衣服カタログです。
// 画像の取得結果は ImageCacher に保存し、同じ衣服の再取得を避けます。
type Wardrobe struct {
	garments   []domain.Garment
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration
	isSafeURL  func(string) (bool, error)
	logger     *slog.Logger
}

// WardrobeOption は Wardrobe の任意設定です。
type WardrobeOption func(*Wardrobe)

// WithWardrobeLogger はキャッシュ異常などの警告の出力先を設定します。
func WithWardrobeLogger(logger *slog.Logger) WardrobeOption {
	return func(w *Wardrobe) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWardrobe は依存関係を注入して Wardrobe を初期化します。cache は nil を許容します。
func NewWardrobe(garments []domain.Garment, httpClient HTTPClient, cache ImageCacher, cacheTTL time.Duration, opts ...WardrobeOption) (*Wardrobe, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}

	w := &Wardrobe{
		garments:   garments,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
		isSafeURL:  IsSafeURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Garments は登録済みの衣服一覧のコピーを返します。
func (w *Wardrobe) Garments() []domain.Garment {
	out := make([]domain.Garment, len(w.garments))
	copy(out, w.garments)
	return out
}

// Find は ID に一致する衣服を返します。
func (w *Wardrobe) Find(id string) (domain.Garment, bool) {
	for _, g := range w.garments {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Garment{}, false
}

// Fetch は衣服画像を取得して EncodedImage に変換します。
func (w *Wardrobe) Fetch(ctx context.Context, id string) (*domain.Garment, *domain.EncodedImage, error) {
	garment, ok := w.Find(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrGarmentNotFound, id)
	}

	cacheKey := cacheKeyGarment + garment.URL
	if w.cache != nil {
		if val, ok := w.cache.Get(cacheKey); ok {
			if img, ok := val.(*domain.EncodedImage); ok {
				return &garment, img, nil
			}
			w.logger.WarnContext(ctx, "キャッシュデータが不正な型です", "url", garment.URL, "type", fmt.Sprintf("%T", val))
		}
	}

	if safe, err := w.isSafeURL(garment.URL); err != nil || !safe {
		return nil, nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}

	data, err := w.httpClient.FetchBytes(ctx, garment.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("衣服画像のダウンロードに失敗しました (%s): %w", garment.ID, err)
	}

	img, err := toEncodedImage(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", garment.ID, err)
	}

	if w.cache != nil {
		w.cache.Set(cacheKey, img, w.expiration)
	}
	return &garment, img, nil
}

func toEncodedImage(data []byte) (*domain.EncodedImage, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, mimeType)
	}

	if UseImageCompression {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			return domain.NewEncodedImage("image/jpeg", compressed), nil
		}
	}
	return domain.NewEncodedImage(mimeType, data), nil
}
