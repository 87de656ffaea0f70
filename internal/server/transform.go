package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shouni/gemini-tryon-kit/pkg/domain"
	"github.com/shouni/gemini-tryon-kit/pkg/imgutil"
)

type cropRequest struct {
	Image          string             `json:"image"`
	RenderedWidth  float64            `json:"rendered_width"`
	RenderedHeight float64            `json:"rendered_height"`
	Region         *domain.CropRegion `json:"region,omitempty"`
}

type exportRequest struct {
	Image  string `json:"image"`
	Inline bool   `json:"inline"` // true なら共有用に data URL で返す
}

type imageResponse struct {
	Image    string `json:"image"`
	Filename string `json:"filename,omitempty"`
}

func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	var req cropRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", errBadRequest, err), contextCrop)
		return
	}

	if req.RenderedWidth <= 0 || req.RenderedHeight <= 0 {
		writeFailure(w, imgutil.ErrInvalidGeometry, contextCrop)
		return
	}

	src, err := imgutil.DecodeDataURL(req.Image)
	if err != nil {
		writeFailure(w, err, contextCrop)
		return
	}
	raw, err := src.Bytes()
	if err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", imgutil.ErrMalformedDataURL, err), contextCrop)
		return
	}

	region := imgutil.DefaultCropRegion(req.RenderedWidth, req.RenderedHeight)
	if req.Region != nil {
		region = *req.Region
	}

	cropped, err := imgutil.CropToRegion(imgutil.DisplayedImage{
		Data:           raw,
		RenderedWidth:  req.RenderedWidth,
		RenderedHeight: req.RenderedHeight,
	}, region)
	if err != nil {
		writeFailure(w, err, contextCrop)
		return
	}
	if cropped == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, imageResponse{Image: cropped.DataURL()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeFailure(w, fmt.Errorf("%w: %w", errBadRequest, err), contextExport)
		return
	}

	out, err := imgutil.ExportForDownload(req.Image)
	if err != nil {
		writeFailure(w, err, contextExport)
		return
	}

	if req.Inline {
		writeJSON(w, http.StatusOK, imageResponse{Image: out.DataURL(), Filename: imgutil.ExportFilename})
		return
	}

	data, err := out.Bytes()
	if err != nil {
		writeFailure(w, err, contextExport)
		return
	}
	w.Header().Set("content-type", out.MimeType)
	w.Header().Set("content-length", strconv.Itoa(len(data)))
	w.Header().Set("content-disposition", fmt.Sprintf("attachment; filename=%q", imgutil.ExportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
