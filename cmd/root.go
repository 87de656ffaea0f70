package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/shouni/gemini-tryon-kit/internal/builder"
	"github.com/shouni/gemini-tryon-kit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// offlineAnnotation が付いたコマンドは生成モデルを呼ばないため、API キーを要求しません。
const offlineAnnotation = "offline"

var opts config.GenerateOptions

// rootFlags は環境変数より優先される共通フラグです。
var rootFlags struct {
	imageModel  string
	logLevel    string
	httpTimeout time.Duration
	seed        int64
}

var rootCmd = &cobra.Command{
	Use:               "tryon-kit",
	Short:             "Gemini の画像モデルでバーチャル試着を行います。",
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, modelCmd, tryonCmd, poseCmd, cropCmd, exportCmd, lookbookCmd)
}

// addAppFlags は全コマンド共通のフラグを定義します。
func addAppFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&rootFlags.imageModel, "image-model", config.DefaultImageModel, "使用する Gemini 画像モデル名")
	cmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", config.DefaultLogLevel, "ログレベル (debug, info, warn, error)")
	cmd.PersistentFlags().DurationVar(&rootFlags.httpTimeout, "http-timeout", config.DefaultHTTPTimeout, "HTTP リクエストのタイムアウト")
	cmd.PersistentFlags().Int64Var(&rootFlags.seed, "seed", 0, "生成に使う固定シード値（未指定ならランダム）")
	cmd.PersistentFlags().StringVarP(&opts.OutputFile, "output", "o", "", "出力ファイルのパス")
}

// preRunAppE は .env を読み込み、API キーの有無を確認します。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}

	if _, offline := cmd.Annotations[offlineAnnotation]; offline {
		return nil
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("環境変数 GEMINI_API_KEY が設定されていません。Gemini API の利用には必須です")
	}
	return nil
}

// loadConfig は環境変数の設定に、明示的に指定されたフラグを上書きします。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("image-model") {
		cfg.ImageModel = rootFlags.imageModel
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = rootFlags.logLevel
	}
	if flags.Changed("http-timeout") {
		cfg.HTTPTimeout = rootFlags.httpTimeout
	}
	if flags.Changed("seed") {
		seed := rootFlags.seed
		cfg.Seed = &seed
	}
	cfg.Options = opts
	return cfg
}

// buildApp は設定を読み込み、全ての依存関係を組み立てます。
func buildApp(cmd *cobra.Command) (*builder.AppContext, error) {
	cfg := loadConfig(cmd)
	app, err := builder.BuildAppContext(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(app.Logger)
	return app, nil
}

// Execute はアプリケーションのエントリポイントです。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
