package domain

import (
	"encoding/base64"
	"fmt"
)

// EncodedImage は MIME タイプ付きの base64 画像ペイロードです。
// ファイル、アップロード、data URL のいずれから作られても同じ形になります。
type EncodedImage struct {
	MimeType string
	Data     string // base64 (StdEncoding)
}

// DataURL は data:<mimeType>;base64,<data> 形式の文字列を返します。
func (e EncodedImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", e.MimeType, e.Data)
}

// Bytes は base64 ペイロードをデコードした生バイト列を返します。
func (e EncodedImage) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(e.Data)
}

// NewEncodedImage は生バイト列から EncodedImage を作成します。
func NewEncodedImage(mimeType string, data []byte) *EncodedImage {
	return &EncodedImage{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// GenerationRequest は生成モデルへ送る1回分の指示です。
// Images の順序はモデル側の役割解釈に影響するため、呼び出し側で固定します。
type GenerationRequest struct {
	Instruction string
	Images      []*EncodedImage
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	DataURL  string
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}

// CropRegion は表示座標系（デバイスピクセル）での切り抜き矩形です。
type CropRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsEmpty は幅か高さがゼロ以下のときに true を返します。
func (r CropRegion) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}
