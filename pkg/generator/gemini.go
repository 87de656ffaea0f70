package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

// TryOnGenerator は、ベースモデル生成・衣服の適用・ポーズ変更の3つを担当するジェネレーターです。
// 状態は持たず、各メソッドは生成モデルへのリクエストを1回だけ発行します。
type TryOnGenerator struct {
	client ContentGenerator
	model  string
	seed   *int64
	logger *slog.Logger
}

// Option は TryOnGenerator の任意設定です。
type Option func(*TryOnGenerator)

// WithSeed は生成時のシード値を固定します。
func WithSeed(seed int64) Option {
	return func(g *TryOnGenerator) {
		g.seed = &seed
	}
}

// WithLogger はリクエストのログ出力先を指定します。
func WithLogger(logger *slog.Logger) Option {
	return func(g *TryOnGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewTryOnGenerator は依存関係を注入して TryOnGenerator を初期化します。
func NewTryOnGenerator(client ContentGenerator, model string, opts ...Option) (*TryOnGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("client (ContentGenerator) is required")
	}
	if model == "" {
		model = DefaultModel
	}

	g := &TryOnGenerator{
		client: client,
		model:  model,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SynthesizeBaseModel は利用者の写真からスタジオ撮影風のモデル画像を生成します。
func (g *TryOnGenerator) SynthesizeBaseModel(ctx context.Context, userImage *domain.EncodedImage) (string, error) {
	if userImage == nil {
		return "", fmt.Errorf("user image is required")
	}

	return g.generate(ctx, "base_model", domain.GenerationRequest{
		Instruction: baseModelInstruction,
		Images:      []*domain.EncodedImage{userImage},
	})
}

// ApplyGarment はモデル画像に衣服画像を着せます。
// 画像パーツは必ず [モデル, 衣服] の順で送ります。モデルは順序で役割を解釈するためです。
func (g *TryOnGenerator) ApplyGarment(ctx context.Context, modelImageDataURL string, garmentImage *domain.EncodedImage) (string, error) {
	modelImage, err := imgutil.DecodeDataURL(modelImageDataURL)
	if err != nil {
		return "", err
	}
	if garmentImage == nil {
		return "", fmt.Errorf("garment image is required")
	}

	return g.generate(ctx, "garment", domain.GenerationRequest{
		Instruction: garmentInstruction,
		Images:      []*domain.EncodedImage{modelImage, garmentImage},
	})
}

// SynthesizePoseVariation は現在の画像を別の視点・ポーズで再生成します。
func (g *TryOnGenerator) SynthesizePoseVariation(ctx context.Context, currentImageDataURL string, poseInstruction string) (string, error) {
	current, err := imgutil.DecodeDataURL(currentImageDataURL)
	if err != nil {
		return "", err
	}

	return g.generate(ctx, "pose", domain.GenerationRequest{
		Instruction: posePrompt(poseInstruction),
		Images:      []*domain.EncodedImage{current},
	})
}
