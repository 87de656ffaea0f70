package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
	"github.com/shouni/gemini-tryon-kit/pkg/pose"
	"github.com/shouni/gemini-tryon-kit/pkg/session"
)

type poseRequest struct {
	Instruction string `json:"instruction"`
	Direction   string `json:"direction"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	upload, err := readUpload(w, r, "image")
	if err != nil {
		writeFailure(w, err, contextModel)
		return
	}

	token := sess.Begin(session.SlotModel)
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	dataURL, err := s.gen.SynthesizeBaseModel(ctx, upload)
	if err != nil {
		writeFailure(w, err, contextModel)
		return
	}
	if !sess.SetModel(token, dataURL) {
		s.superseded(w, r, session.SlotModel)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleGarment(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	// 衣服の取得中に別の生成が反映された場合は、この結果を破棄する
	token, current := sess.BeginGarment()
	if current == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msgNoModel})
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	garment, img, err := s.resolveGarment(ctx, w, r)
	if err != nil {
		writeFailure(w, err, contextGarment)
		return
	}

	dataURL, err := s.gen.ApplyGarment(ctx, current, img)
	if err != nil {
		writeFailure(w, err, contextGarment)
		return
	}
	if !sess.PushGarment(token, *garment, dataURL) {
		s.superseded(w, r, session.SlotTryOn)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// resolveGarment はアップロードされた衣服画像、またはワードローブの garment_id から衣服を決定します。
func (s *Server) resolveGarment(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Garment, *domain.EncodedImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, fmt.Errorf("%w: %w", imgutil.ErrRead, err)
	}

	if id := strings.TrimSpace(r.FormValue("garment_id")); id != "" {
		return s.wardrobe.Fetch(ctx, id)
	}

	file, header, err := r.FormFile("garment")
	if err != nil {
		return nil, nil, errMissingImage
	}
	defer file.Close()

	img, err := imgutil.EncodeReader(file, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, err
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	garment := &domain.Garment{
		ID:   fmt.Sprintf("custom-%d", time.Now().UnixMilli()),
		Name: name,
	}
	return garment, img, nil
}

func (s *Server) handlePose(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req poseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", errBadRequest, err), contextPose)
		return
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		direction, ok := pose.ParseDirection(req.Direction)
		if !ok {
			writeFailure(w, fmt.Errorf("%w: instruction or direction is required", errBadRequest), contextPose)
			return
		}
		instruction = sess.PeekPose(direction)
	}

	// 生成済みのポーズは呼び出しなしで切り替える
	if sess.SelectPose(instruction) {
		writeJSON(w, http.StatusOK, sess.Snapshot())
		return
	}

	token, base := sess.BeginPose()
	if base == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: msgNoModel})
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	dataURL, err := s.gen.SynthesizePoseVariation(ctx, base, instruction)
	if err != nil {
		writeFailure(w, err, contextPose)
		return
	}
	if !sess.SetPoseImage(token, instruction, dataURL) {
		s.superseded(w, r, session.SlotTryOn)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if !sess.Undo() {
		writeJSON(w, http.StatusConflict, apiError{Error: msgNothingToUndo})
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: msgSessionNotFound})
		return nil, false
	}
	return sess, true
}

func (s *Server) superseded(w http.ResponseWriter, r *http.Request, slot session.Slot) {
	s.logger.WarnContext(r.Context(), "古い生成結果を破棄しました", "session", r.PathValue("id"), "slot", slot)
	writeJSON(w, http.StatusConflict, apiError{Error: msgSuperseded})
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.requestTimeout)
}

// readUpload は multipart の field から画像を読み込みます。
func readUpload(w http.ResponseWriter, r *http.Request, field string) (*domain.EncodedImage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", imgutil.ErrRead, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errMissingImage
	}
	defer file.Close()

	return imgutil.EncodeReader(file, header.Header.Get("Content-Type"))
}

