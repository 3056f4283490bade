package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
	"github.com/shmcrekt/legendary-barnacle/internal/quote"
	"github.com/shmcrekt/legendary-barnacle/internal/store"
)

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateAnalysis accepts a multipart upload under the "file" field,
// runs the estimation pipeline, and persists the result. Concurrent uploads
// are independent; the analyses table keeps every result and readers take
// the latest.
func (s *server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	est, err := s.pipeline.Analyze(r.Context(), header.Filename, data)
	if err != nil {
		if geometry.IsValidation(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("analysis failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	format, _ := geometry.FormatForFilename(header.Filename)
	analysis, err := s.store.SaveAnalysis(r.Context(), header.Filename, format, est)
	if err != nil {
		s.log.Error("failed to save analysis", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save analysis")
		return
	}

	s.metrics.analysesTotal.WithLabelValues(string(est.Tier)).Inc()
	writeJSON(w, http.StatusCreated, analysis)
}

func (s *server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.store.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.log.Error("failed to load analysis", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type createQuoteRequest struct {
	AnalysisID  string             `json:"analysis_id,omitempty"`
	Estimate    *geometry.Estimate `json:"estimate,omitempty"`
	MaterialID  string             `json:"material_id"`
	ColorID     string             `json:"color_id"`
	CavityCount int                `json:"cavity_count"`
	Title       string             `json:"title,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

// handleCreateQuote prices a part from a stored analysis or an inline
// estimate. The result is recomputed from scratch on every call; nothing is
// cached between selection changes.
func (s *server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var est geometry.Estimate
	switch {
	case req.AnalysisID != "":
		analysis, err := s.store.GetAnalysis(r.Context(), req.AnalysisID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		if err != nil {
			s.log.Error("failed to load analysis", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load analysis")
			return
		}
		est = analysis.Estimate
	case req.Estimate != nil:
		est = *req.Estimate
	default:
		writeError(w, http.StatusBadRequest, "analysis_id or estimate is required")
		return
	}

	material, ok := s.catalog.MaterialByID(req.MaterialID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown material_id")
		return
	}
	color, ok := s.catalog.ColorByID(req.ColorID)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown color_id")
		return
	}
	if req.CavityCount < 1 {
		writeError(w, http.StatusBadRequest, "cavity_count must be a positive integer")
		return
	}

	result := quote.Calculate(est, quote.Selection{
		Material:    material,
		Color:       color,
		CavityCount: req.CavityCount,
	}, s.catalog.Rules, s.catalog.Machines)

	saved, err := s.store.SaveQuote(r.Context(), store.Quote{
		AnalysisID:  req.AnalysisID,
		Title:       strings.TrimSpace(req.Title),
		Notes:       strings.TrimSpace(req.Notes),
		MaterialID:  material.ID,
		ColorID:     color.ID,
		CavityCount: req.CavityCount,
		Result:      result,
	})
	if err != nil {
		s.log.Error("failed to save quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save quote")
		return
	}

	s.metrics.quotesTotal.Inc()
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotes, err := s.store.ListQuotes(r.Context(), query)
	if err != nil {
		s.log.Error("failed to list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return
	}
	if err != nil {
		s.log.Error("failed to load quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
