package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Garment はワードローブに登録された衣服です。
type Garment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// OutfitLayer は試着結果の1段分です。
// 先頭レイヤー（Garment == nil）はベースモデルを表します。
type OutfitLayer struct {
	Garment    *Garment          `json:"garment,omitempty"`
	PoseImages map[string]string `json:"-"` // ポーズ指示 -> data URL
}

// NewOutfitLayer は指定したポーズの画像を持つレイヤーを作成します。
func NewOutfitLayer(garment *Garment, pose, dataURL string) OutfitLayer {
	return OutfitLayer{
		Garment:    garment,
		PoseImages: map[string]string{pose: dataURL},
	}
}

// LoadGarments は JSON 配列で定義された衣服カタログを読み込みます。
func LoadGarments(path string) ([]Garment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("衣服カタログの読み込みに失敗しました: %w", err)
	}

	var garments []Garment
	if err := json.Unmarshal(data, &garments); err != nil {
		return nil, fmt.Errorf("衣服カタログのJSON解析に失敗しました: %w", err)
	}

	for i, g := range garments {
		if g.ID == "" || g.URL == "" {
			return nil, fmt.Errorf("衣服カタログ %d 件目に id または url がありません", i+1)
		}
	}
	return garments, nil
}
