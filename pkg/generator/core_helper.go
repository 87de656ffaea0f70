package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// generate は リクエスト組み立て -> 通信 -> 分類 を順に行う共通処理です。
func (g *TryOnGenerator) generate(ctx context.Context, op string, req domain.GenerationRequest) (string, error) {
	parts, err := toParts(req)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: responseModalities,
		Seed:               seedToPtrInt32(g.seed),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	g.logger.InfoContext(ctx, "画像生成をリクエストします",
		"op", op, "model", g.model, "images", len(req.Images), "seed", dereferenceSeed(g.seed))
	start := time.Now()

	resp, err := g.client.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.WarnContext(ctx, "画像生成リクエストに失敗しました", "op", op, "error", err)
		return "", err // ラップは呼び出し元で行う
	}

	result := Classify(resp)
	dataURL, err := Resolve(result)
	if err != nil {
		g.logger.WarnContext(ctx, "画像が返されませんでした", "op", op, "result", fmt.Sprintf("%T", result), "error", err)
		return "", err
	}

	g.logger.InfoContext(ctx, "画像生成が完了しました", "op", op, "elapsed_ms", time.Since(start).Milliseconds())
	return dataURL, nil
}

// toParts は画像パーツを順序どおりに並べ、最後に指示テキストを追加します。
func toParts(req domain.GenerationRequest) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for i, img := range req.Images {
		if img == nil {
			return nil, fmt.Errorf("image #%d is nil", i+1)
		}
		raw, err := img.Bytes()
		if err != nil {
			return nil, fmt.Errorf("%w: image #%d: %w", imgutil.ErrMalformedDataURL, i+1, err)
		}
		parts = append(parts, genai.NewPartFromBytes(raw, img.MimeType))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))
	return parts, nil
}
