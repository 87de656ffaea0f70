package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("未設定なら既定値", func(t *testing.T) {
		for _, key := range []string{"TRYON_MODEL", "SESSION_TTL", "TRYON_SEED"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		cfg := LoadConfig()

		assert.Equal(t, DefaultImageModel, cfg.ImageModel)
		assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
		assert.Nil(t, cfg.Seed)
	})

	t.Run("環境変数を反映する", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", " key ")
		t.Setenv("TRYON_MODEL", "custom-model")
		t.Setenv("REQUEST_TIMEOUT", "45s")
		t.Setenv("TRYON_SEED", "1234")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg := LoadConfig()

		assert.Equal(t, "key", cfg.GeminiAPIKey)
		assert.Equal(t, "custom-model", cfg.ImageModel)
		assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, int64(1234), *cfg.Seed)
	})

	t.Run("不正な期間は既定値", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		t.Setenv("SESSION_TTL", "-5m")

		cfg := LoadConfig()

		assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
		assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	})
}
