package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/generator"
	"github.com/shouni/gemini-tryon-kit/pkg/pose"
	"github.com/shouni/gemini-tryon-kit/pkg/session"
)

const maxUploadBytes = 25 << 20

// GarmentSource は ID で衣服画像を取得できるカタログです。
type GarmentSource interface {
	Garments() []domain.Garment
	Fetch(ctx context.Context, id string) (*domain.Garment, *domain.EncodedImage, error)
}

// Options は Server の任意設定です。
type Options struct {
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server は試着 API の HTTP ハンドラー群です。
type Server struct {
	gen            generator.ImageGenerator
	wardrobe       GarmentSource
	sessions       *session.Store
	requestTimeout time.Duration
	logger         *slog.Logger
}

type apiError struct {
	Error string `json:"error"`
}

// New は依存関係を注入して Server を作成します。
func New(gen generator.ImageGenerator, wardrobe GarmentSource, sessions *session.Store, opts Options) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if wardrobe == nil {
		return nil, fmt.Errorf("wardrobe is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &Server{
		gen:            gen,
		wardrobe:       wardrobe,
		sessions:       sessions,
		requestTimeout: timeout,
		logger:         logger,
	}, nil
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/poses", s.handlePoses)
	mux.HandleFunc("GET /api/wardrobe", s.handleWardrobe)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleResetSession)
	mux.HandleFunc("POST /api/sessions/{id}/model", s.handleModel)
	mux.HandleFunc("POST /api/sessions/{id}/garments", s.handleGarment)
	mux.HandleFunc("POST /api/sessions/{id}/pose", s.handlePose)
	mux.HandleFunc("POST /api/sessions/{id}/undo", s.handleUndo)

	mux.HandleFunc("POST /api/crop", s.handleCrop)
	mux.HandleFunc("POST /api/export", s.handleExport)

	return withLogging(mux, s.logger)
}

func (s *Server) handlePoses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"poses": pose.Instructions})
}

func (s *Server) handleWardrobe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"garments": s.wardrobe.Garments()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur_ms", time.Since(start).Milliseconds())
	})
}
