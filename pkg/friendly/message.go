// Package friendly は失敗内容を利用者向けのメッセージに変換します。
package friendly

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	// UnknownErrorMessage は失敗内容が存在しない場合の既定文言です。
	UnknownErrorMessage = "Une erreur inconnue est survenue."

	unsupportedMarker = "Unsupported MIME type"
)

// Message は raw を文字列化し、context を添えた利用者向けメッセージを返します。
// MIME タイプ非対応のエラーだけは専用の文言に置き換えます。
func Message(raw any, context string) string {
	msg := stringify(raw)

	candidates := []string{msg}
	var apiErr genai.APIError
	if err, ok := raw.(error); ok && errors.As(err, &apiErr) && apiErr.Message != "" {
		candidates = append([]string{apiErr.Message}, candidates...)
	}

	for _, c := range candidates {
		if mimeType, ok := UnsupportedMediaType(c); ok {
			return unsupportedMessage(mimeType)
		}
	}

	return fmt.Sprintf("%s. %s", context, msg)
}

// UnsupportedMediaType はメッセージが MIME タイプ非対応のエラーかどうかを判定します。
// 判定できた場合は ok が true になり、取り出せたときだけ mimeType に値が入ります。
//
// 判定は次の順で行います。
//  1. "Unsupported MIME type" を含むか
//  2. JSON として解析し error.message が同じ文言を含めば ": " で分割した2番目
//  3. メッセージ自体がその文言で始まれば同様に分割した2番目
func UnsupportedMediaType(msg string) (mimeType string, ok bool) {
	if !strings.Contains(msg, unsupportedMarker) {
		return "", false
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(msg), &payload); err == nil && strings.Contains(payload.Error.Message, unsupportedMarker) {
		return secondSegment(payload.Error.Message), true
	}

	if strings.HasPrefix(msg, unsupportedMarker) {
		return secondSegment(msg), true
	}
	return "", true
}

func unsupportedMessage(mimeType string) string {
	if mimeType == "" {
		return "Format de fichier non pris en charge. Veuillez utiliser une image au format PNG, JPEG ou WEBP."
	}
	return fmt.Sprintf("Le type de fichier '%s' n'est pas pris en charge. Veuillez utiliser un format comme PNG, JPEG ou WEBP.", mimeType)
}

func secondSegment(msg string) string {
	segments := strings.Split(msg, ": ")
	if len(segments) < 2 {
		return ""
	}
	return strings.TrimSpace(segments[1])
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return UnknownErrorMessage
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
