package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"golang.org/x/image/draw"
)

// americanShotRatio は初期切り抜き枠の高さ（表示高さに対する割合）です。
const americanShotRatio = 0.7

// geometryEpsilon は表示座標の浮動小数点誤差の許容値です。
const geometryEpsilon = 1e-6

// ErrInvalidGeometry は表示サイズが不正で縮尺を計算できないことを表します。
var ErrInvalidGeometry = errors.New("invalid rendered image geometry")

// DisplayedImage は画面上に（縮小されて）表示されている画像です。
// Data は元解像度のエンコード済み画像、Rendered* は表示上のサイズです。
type DisplayedImage struct {
	Data           []byte
	RenderedWidth  float64
	RenderedHeight float64
}

// DefaultCropRegion は画像読み込み時の初期切り抜き枠（全幅、上から70%）を返します。
func DefaultCropRegion(renderedWidth, renderedHeight float64) domain.CropRegion {
	return domain.CropRegion{
		X:      0,
		Y:      0,
		Width:  renderedWidth,
		Height: renderedHeight * americanShotRatio,
	}
}

// CropToRegion は表示座標の region を元解像度に射影して切り抜き、JPEG にエンコードします。
// region の幅か高さがゼロの場合は nil, nil を返します。
// region が表示範囲からはみ出している場合は ErrInvalidGeometry を返します。
func CropToRegion(img DisplayedImage, region domain.CropRegion) (*domain.EncodedImage, error) {
	if region.IsEmpty() {
		return nil, nil
	}
	if img.RenderedWidth <= 0 || img.RenderedHeight <= 0 {
		return nil, ErrInvalidGeometry
	}
	if !withinRendered(img, region) {
		return nil, fmt.Errorf("%w: region (%g, %g, %g, %g) exceeds %gx%g", ErrInvalidGeometry,
			region.X, region.Y, region.Width, region.Height, img.RenderedWidth, img.RenderedHeight)
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("切り抜き元画像のデコードに失敗しました: %w", err)
	}

	bounds := src.Bounds()
	scaleX := float64(bounds.Dx()) / img.RenderedWidth
	scaleY := float64(bounds.Dy()) / img.RenderedHeight

	width := int(math.Round(region.Width * scaleX))
	height := int(math.Round(region.Height * scaleY))
	if width <= 0 || height <= 0 {
		return nil, nil
	}

	offset := image.Pt(
		bounds.Min.X+int(math.Round(region.X*scaleX)),
		bounds.Min.Y+int(math.Round(region.Y*scaleY)),
	)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), src, offset, draw.Src)

	out, err := encodeJPEG(dst, JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("切り抜き画像のエンコードに失敗しました: %w", err)
	}
	return domain.NewEncodedImage("image/jpeg", out), nil
}

func withinRendered(img DisplayedImage, region domain.CropRegion) bool {
	return region.X >= 0 && region.Y >= 0 &&
		region.X+region.Width <= img.RenderedWidth+geometryEpsilon &&
		region.Y+region.Height <= img.RenderedHeight+geometryEpsilon
}
