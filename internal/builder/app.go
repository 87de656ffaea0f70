package builder

import (
	"log/slog"

	"github.com/shouni/gemini-tryon-kit/internal/config"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/session"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// AppContext は、アプリケーション実行に必要な共通の依存関係を保持します。
// 生成クライアントはここで1つだけ作り、各コンポーネントへ明示的に渡します。
type AppContext struct {
	Config     *config.Config           // 環境変数とCLIフラグから組み立てた設定
	HTTPClient httpkit.ClientInterface  // 衣服画像の取得に使う共通クライアント
	Generator  generator.ImageGenerator // 生成パイプライン
	Wardrobe   *generator.Wardrobe      // 既定の衣服カタログ
	Sessions   *session.Store           // 試着セッション
	Logger     *slog.Logger
}
