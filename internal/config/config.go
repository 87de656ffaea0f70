package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義
const (
	DefaultImageModel       = "gemini-2.5-flash-image"
	DefaultAddr             = ":8080"
	DefaultHTTPTimeout      = 120 * time.Second
	DefaultRequestTimeout   = 180 * time.Second
	DefaultSessionTTL       = 30 * time.Minute
	DefaultGarmentCacheTTL  = 1 * time.Hour
	DefaultWardrobeFile     = "examples/wardrobe.json"
	DefaultOutputDir        = "output"
	DefaultLogLevel         = "info"
	DefaultLookbookInterval = 5 * time.Second
	DefaultLookbookWorkers  = 2
)

// Config は環境変数から読み込むアプリケーション全体の設定です。
type Config struct {
	GeminiAPIKey   string
	ImageModel     string
	Addr           string
	LogLevel       string
	WardrobeFile   string
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	GarmentTTL     time.Duration
	Seed           *int64

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込みます。不正な値は既定値に置き換えます。
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		ImageModel:     getEnv("TRYON_MODEL", DefaultImageModel),
		Addr:           getEnv("TRYON_ADDR", DefaultAddr),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		WardrobeFile:   getEnv("TRYON_WARDROBE_FILE", DefaultWardrobeFile),
		HTTPTimeout:    durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout),
		SessionTTL:     durationEnv("SESSION_TTL", DefaultSessionTTL),
		GarmentTTL:     durationEnv("GARMENT_CACHE_TTL", DefaultGarmentCacheTTL),
	}

	if raw := getEnv("TRYON_SEED", ""); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Seed = &seed
		}
	}

	return cfg
}

// getEnv は空白だけの値も未設定として扱います。
func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(envutil.GetEnv(key, fallback)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータです。
type GenerateOptions struct {
	// 入出力
	InputFile  string // --input
	OutputFile string // --output
	OutputDir  string // --output-dir

	// 試着
	ModelFile   string // --model-image
	GarmentFile string // --garment
	GarmentID   string // --garment-id

	// ポーズ
	Pose string // --pose

	// 切り抜き（表示座標）
	RenderedWidth  float64
	RenderedHeight float64
	CropX          float64
	CropY          float64
	CropWidth      float64
	CropHeight     float64

	// ルックブック
	Workers  int
	Interval time.Duration
}
