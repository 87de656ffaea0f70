package generator

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Result は生成レスポンスの分類結果です。
// Success, Blocked, StoppedAbnormally, NoImageReturned のいずれか1つだけを取ります。
type Result interface {
	isResult()
}

// Success は画像が返ってきたことを表します。
type Success struct {
	DataURL  string
	MimeType string
}

// Blocked はリクエスト自体がポリシーによって拒否されたことを表します。
type Blocked struct {
	Reason  string
	Message string
}

// StoppedAbnormally は STOP 以外の理由で生成が打ち切られたことを表します。
type StoppedAbnormally struct {
	Reason string
}

// NoImageReturned は生成は完了したが画像が含まれていなかったことを表します。
// Text はモデルが代わりに返したテキスト（空なら無し）です。
type NoImageReturned struct {
	Text string
}

func (*Success) isResult()           {}
func (*Blocked) isResult()           {}
func (*StoppedAbnormally) isResult() {}
func (*NoImageReturned) isResult()   {}

func (e *Blocked) Error() string {
	return strings.TrimSpace(fmt.Sprintf("Request was blocked. Reason: %s. %s", e.Reason, e.Message))
}

func (e *StoppedAbnormally) Error() string {
	return fmt.Sprintf("Image generation stopped unexpectedly. Reason: %s. This often relates to safety settings.", e.Reason)
}

func (e *NoImageReturned) Error() string {
	msg := "The AI model did not return an image. "
	if e.Text != "" {
		return msg + fmt.Sprintf("The model responded with text: %q", e.Text)
	}
	return msg + "This can happen due to safety filters or if the request is too complex. Please try a different image."
}

// Classify はレスポンスを以下の優先順位で分類します。
//  1. PromptFeedback にブロック理由がある
//  2. 候補・パーツを順に走査して最初に見つかった InlineData
//  3. 最初の候補の FinishReason が STOP 以外
//  4. 上記以外（テキストがあれば添える）
func Classify(resp *genai.GenerateContentResponse) Result {
	if resp == nil {
		return &NoImageReturned{}
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return &Blocked{Reason: string(fb.BlockReason), Message: fb.BlockReasonMessage}
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			mimeType := part.InlineData.MIMEType
			return &Success{
				DataURL:  fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(part.InlineData.Data)),
				MimeType: mimeType,
			}
		}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		reason := resp.Candidates[0].FinishReason
		if reason != "" && reason != genai.FinishReasonStop {
			return &StoppedAbnormally{Reason: string(reason)}
		}
	}

	return &NoImageReturned{Text: strings.TrimSpace(aggregateText(resp))}
}

// Resolve は分類結果を data URL か、失敗を表す error に変換します。
func Resolve(result Result) (string, error) {
	switch r := result.(type) {
	case *Success:
		return r.DataURL, nil
	case *Blocked:
		return "", r
	case *StoppedAbnormally:
		return "", r
	case *NoImageReturned:
		return "", r
	default:
		return "", fmt.Errorf("unknown generation result: %T", result)
	}
}

// aggregateText は最初の候補のテキストパーツを連結します（思考パーツは除く）。
func aggregateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
