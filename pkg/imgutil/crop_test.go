package imgutil

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 左半分が赤、右半分が青の画像
func halfAndHalf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return encodeForTest(t, "png", img)
}

func TestDefaultCropRegion(t *testing.T) {
	r := DefaultCropRegion(400, 600)
	assert.Equal(t, 0.0, r.X)
	assert.Equal(t, 0.0, r.Y)
	assert.Equal(t, 400.0, r.Width)
	assert.InDelta(t, 420.0, r.Height, 1e-9)
}

func TestCropToRegion(t *testing.T) {
	src := DisplayedImage{
		Data:           halfAndHalf(t, 200, 100),
		RenderedWidth:  100,
		RenderedHeight: 50,
	}

	t.Run("幅または高さがゼロなら nil を返す", func(t *testing.T) {
		for _, r := range []domain.CropRegion{
			{X: 1, Y: 1, Width: 0, Height: 10},
			{X: 1, Y: 1, Width: 10, Height: 0},
		} {
			out, err := CropToRegion(src, r)
			assert.NoError(t, err)
			assert.Nil(t, out)
		}
	})

	t.Run("出力サイズは round(幅*scale) x round(高さ*scale)", func(t *testing.T) {
		region := domain.CropRegion{X: 10, Y: 5, Width: 33.3, Height: 20}

		out, err := CropToRegion(src, region)
		require.NoError(t, err)
		require.NotNil(t, out)
		assert.Equal(t, "image/jpeg", out.MimeType)

		raw, err := out.Bytes()
		require.NoError(t, err)
		img, format := decodeForTest(t, raw)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, int(math.Round(33.3*2)), img.Bounds().Dx())
		assert.Equal(t, int(math.Round(20*2)), img.Bounds().Dy())
	})

	t.Run("元解像度のオフセットから切り抜く", func(t *testing.T) {
		// 表示座標で右半分 = 元解像度の x=100..200
		region := domain.CropRegion{X: 50, Y: 0, Width: 50, Height: 50}

		out, err := CropToRegion(src, region)
		require.NoError(t, err)
		raw, err := out.Bytes()
		require.NoError(t, err)
		img, _ := decodeForTest(t, raw)

		r, _, b, _ := img.At(50, 50).RGBA()
		assert.Greater(t, b>>8, uint32(200))
		assert.Less(t, r>>8, uint32(60))
	})

	t.Run("表示サイズが不正ならエラー", func(t *testing.T) {
		_, err := CropToRegion(DisplayedImage{Data: src.Data}, domain.CropRegion{Width: 1, Height: 1})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})

	t.Run("表示範囲からはみ出す枠はエラー", func(t *testing.T) {
		for _, r := range []domain.CropRegion{
			{X: -1, Y: 0, Width: 10, Height: 10},
			{X: 0, Y: -0.5, Width: 10, Height: 10},
			{X: 60, Y: 0, Width: 50, Height: 10},
			{X: 0, Y: 10, Width: 10, Height: 45},
		} {
			out, err := CropToRegion(src, r)
			assert.Nil(t, out, "region %+v", r)
			assert.ErrorIs(t, err, ErrInvalidGeometry, "region %+v", r)
		}
	})

	t.Run("表示範囲いっぱいの枠は切り抜ける", func(t *testing.T) {
		out, err := CropToRegion(src, domain.CropRegion{Width: 100, Height: 50})
		require.NoError(t, err)
		require.NotNil(t, out)
	})

	t.Run("デコードできないデータはエラー", func(t *testing.T) {
		bad := DisplayedImage{Data: []byte("garbage"), RenderedWidth: 10, RenderedHeight: 10}
		_, err := CropToRegion(bad, domain.CropRegion{Width: 1, Height: 1})
		assert.Error(t, err)
	})
}
