package server

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/cryptofolio/internal/models"
	"github.com/bobmcallan/cryptofolio/internal/services/sheet"
)

// handlePositions uploads or fetches the position sheet.
// POST accepts the CSV sheet as the request body; GET returns the stored sheet.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodGet) {
		return
	}
	ctx := r.Context()
	store := s.app.Storage.SheetStorage()

	if r.Method == http.MethodGet {
		stored, err := store.GetSheet(ctx)
		if err != nil {
			WriteError(w, http.StatusNotFound, "No position sheet uploaded")
			return
		}
		WriteJSON(w, http.StatusOK, stored)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	parsed, err := sheet.Parse(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SaveSheet(ctx, parsed); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to persist sheet: "+err.Error())
		return
	}

	s.logger.Info().Int("positions", len(parsed.Positions)).Msg("Position sheet uploaded")
	WriteJSON(w, http.StatusOK, parsed)
}

// handleOverrides sets or fetches the manual activation overrides.
// PUT replaces the override map wholesale; GET returns the stored map.
func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut, http.MethodGet) {
		return
	}
	ctx := r.Context()
	store := s.app.Storage.StateStorage()

	if r.Method == http.MethodGet {
		overrides, err := store.GetOverrides(ctx)
		if err != nil || overrides == nil {
			overrides = map[string]float64{}
		}
		WriteJSON(w, http.StatusOK, overrides)
		return
	}

	var overrides map[string]float64
	if !DecodeJSON(w, r, &overrides) {
		return
	}
	for token, fraction := range overrides {
		if fraction < 0 || fraction > 1 {
			WriteError(w, http.StatusBadRequest,
				fmt.Sprintf("override for %q must be between 0 and 1, got %g", token, fraction))
			return
		}
	}

	if err := store.SaveOverrides(ctx, overrides); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to persist overrides: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, overrides)
}

// handleEvaluate runs one evaluation pass over the stored sheet and overrides.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	summary, err := s.app.PortfolioService.EvaluateStored(r.Context())
	if err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleReport returns the most recent evaluation, running one if needed.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.latestSummary(r)
	if err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleReportPDF renders the most recent evaluation as a downloadable PDF.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.latestSummary(r)
	if err != nil {
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	data, err := s.app.ReportService.BuildPDF(summary)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build PDF: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio_summary.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleCatalogRefresh forces a catalog fetch regardless of cache age.
func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	entries, err := s.app.CatalogService.Refresh(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"coins": len(entries)})
}

// latestSummary returns the last evaluation result, evaluating the stored
// sheet when no run has happened yet.
func (s *Server) latestSummary(r *http.Request) (*models.PortfolioSummary, error) {
	if summary := s.app.PortfolioService.LastSummary(); summary != nil {
		return summary, nil
	}
	return s.app.PortfolioService.EvaluateStored(r.Context())
}
