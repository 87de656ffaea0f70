package generator

import (
	"context"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は生成モデルへの単発リクエストを抽象化します。
// *genai.Models がそのまま満たすため、本番では client.Models を渡し、テストではモックを渡します。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageGenerator はビジネスロジック層が利用する統合窓口です。
type ImageGenerator interface {
	// SynthesizeBaseModel は利用者の写真からスタジオ撮影風のモデル画像を生成します。
	SynthesizeBaseModel(ctx context.Context, userImage *domain.EncodedImage) (string, error)
	// ApplyGarment はモデル画像に衣服画像を着せた画像を生成します。
	ApplyGarment(ctx context.Context, modelImageDataURL string, garmentImage *domain.EncodedImage) (string, error)
	// SynthesizePoseVariation は同じ人物・服装・背景のまま別のポーズの画像を生成します。
	SynthesizePoseVariation(ctx context.Context, currentImageDataURL string, poseInstruction string) (string, error)
}

// ImageCacher は、画像をキャッシュするためのインターフェースです。
// github.com/patrickmn/go-cache の *cache.Cache がそのまま満たします。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
