package server

import (
	"errors"
	"net/http"

	"github.com/shouni/gemini-tryon-kit/pkg/friendly"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

// 画面に表示する失敗時の文脈
const (
	contextModel   = "Impossible de créer le modèle"
	contextGarment = "Impossible d'appliquer le vêtement"
	contextPose    = "Impossible de changer de pose"
	contextCrop    = "Impossible de recadrer l'image"
	contextExport  = "Impossible d'exporter l'image"
)

const (
	msgSessionNotFound = "Session introuvable."
	msgNoModel         = "Veuillez d'abord créer un modèle."
	msgSuperseded      = "Une requête plus récente a remplacé ce résultat."
	msgNothingToUndo   = "Aucun vêtement à retirer."
)

var (
	errMissingImage = errors.New("missing image")
	errBadRequest   = errors.New("invalid request body")
)

// writeFailure は err を利用者向けメッセージに変換して返します。
func writeFailure(w http.ResponseWriter, err error, context string) {
	writeJSON(w, statusFor(err), apiError{Error: friendly.Message(err, context)})
}

func statusFor(err error) int {
	var (
		blocked *generator.Blocked
		stopped *generator.StoppedAbnormally
		noImage *generator.NoImageReturned
	)
	switch {
	case errors.Is(err, imgutil.ErrMalformedDataURL),
		errors.Is(err, imgutil.ErrRead),
		errors.Is(err, imgutil.ErrInvalidGeometry),
		errors.Is(err, errMissingImage),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, generator.ErrGarmentNotFound):
		return http.StatusNotFound
	case errors.As(err, &blocked), errors.As(err, &stopped), errors.As(err, &noImage):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
