package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/shouni/gemini-tryon-kit/internal/config"
	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/session"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"
)

// BuildAppContext は設定から全ての依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	logger := NewLogger(cfg.LogLevel)
	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, err
	}

	gen, err := InitializeImageGenerator(aiClient.Models, cfg, logger)
	if err != nil {
		return nil, err
	}

	httpClient := httpkit.New(cfg.HTTPTimeout)
	wardrobe, err := InitializeWardrobe(ctx, cfg, httpClient, logger)
	if err != nil {
		return nil, err
	}

	return &AppContext{
		Config:     cfg,
		HTTPClient: httpClient,
		Generator:  gen,
		Wardrobe:   wardrobe,
		Sessions:   session.NewStore(cfg.SessionTTL),
		Logger:     logger,
	}, nil
}

// InitializeAIClient は Gemini API 用の genai クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string, httpClient *http.Client) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// InitializeImageGenerator は TryOnGenerator を初期化します。
func InitializeImageGenerator(client generator.ContentGenerator, cfg *config.Config, logger *slog.Logger) (*generator.TryOnGenerator, error) {
	opts := []generator.Option{generator.WithLogger(logger)}
	if cfg.Seed != nil {
		opts = append(opts, generator.WithSeed(*cfg.Seed))
	}

	gen, err := generator.NewTryOnGenerator(client, cfg.ImageModel, opts...)
	if err != nil {
		return nil, fmt.Errorf("TryOnGeneratorの初期化に失敗しました: %w", err)
	}
	return gen, nil
}

// InitializeWardrobe は衣服カタログを読み込みます。ファイルがなければ空のカタログにします。
// 衣服画像の取得には httpClient（本番では httpkit のクライアント）を使います。
func InitializeWardrobe(ctx context.Context, cfg *config.Config, httpClient generator.HTTPClient, logger *slog.Logger) (*generator.Wardrobe, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var garments []domain.Garment
	if cfg.WardrobeFile != "" {
		loaded, err := domain.LoadGarments(cfg.WardrobeFile)
		switch {
		case err == nil:
			garments = loaded
		case errors.Is(err, os.ErrNotExist):
			logger.WarnContext(ctx, "衣服カタログが見つからないため空で起動します", "path", cfg.WardrobeFile)
		default:
			return nil, err
		}
	}

	imgCache := cache.New(cfg.GarmentTTL, 2*cfg.GarmentTTL)
	return generator.NewWardrobe(garments, httpClient, imgCache, cfg.GarmentTTL, generator.WithWardrobeLogger(logger))
}

// NewLogger はログレベル文字列から slog.Logger を作成します。
func NewLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv}))
}
