// Package handlers provides HTTP handlers for portfolio management.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/domain"
	"github.com/aristath/stockwise/internal/modules/csvio"
	"github.com/aristath/stockwise/internal/modules/portfolio"
	"github.com/aristath/stockwise/internal/modules/report"
)

const (
	defaultMovers  = 5
	maxUploadBytes = 10 << 20
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	now     func() time.Time
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetPortfolio returns priced holdings with analytics and suggestions
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Analyze(r.Context()))
}

// HandleGetSummary returns the dashboard summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Summary(r.Context()))
}

// HandleGetPrices returns current prices for ?symbols=A,B,C
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if strings.TrimSpace(raw) == "" {
		h.writeError(w, http.StatusBadRequest, "symbols query parameter is required")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"prices": h.service.Prices(r.Context(), strings.Split(raw, ",")),
	})
}

// HandleGetMovers returns the top gainers and losers, ?n= per side (default 5)
func (h *Handler) HandleGetMovers(w http.ResponseWriter, r *http.Request) {
	n := defaultMovers
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	h.writeJSON(w, http.StatusOK, h.service.Movers(r.Context(), n))
}

// addHoldingRequest is the body of POST /holdings
type addHoldingRequest struct {
	Symbol     string  `json:"symbol"`
	AcquiredOn string  `json:"acquired_on"`
	Sector     string  `json:"sector"`
	Quantity   float64 `json:"quantity"`
	CostBasis  float64 `json:"cost_basis"`
}

// HandleAddHolding merges a lot into the stored holdings
func (h *Handler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req addHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var acquired time.Time
	if req.AcquiredOn != "" {
		d, err := domain.ParseDate(req.AcquiredOn)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "acquired_on must be YYYY-MM-DD")
			return
		}
		acquired = d
	}

	holding := domain.NewHolding(req.Symbol, req.Quantity, req.CostBasis, acquired, req.Sector)
	if err := h.service.AddHolding(holding); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.log.Info().Str("symbol", holding.Symbol).Float64("quantity", holding.Quantity).Msg("Holding added")
	h.writeJSON(w, http.StatusCreated, holding)
}

// HandleDeleteHolding removes the holding for {symbol}
func (h *Handler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := h.service.RemoveHolding(symbol); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleImport replaces all holdings with an uploaded CSV.
// Accepts a multipart "file" field or a raw text/csv body.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.writeError(w, http.StatusBadRequest, "File is empty")
		return
	}

	holdings, err := csvio.ParseHoldings(bytes.NewReader(body))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(holdings) == 0 {
		h.writeError(w, http.StatusBadRequest, "File contains no holdings")
		return
	}

	if err := h.service.Import(holdings); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.log.Info().Int("count", len(holdings)).Msg("Portfolio imported")
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(holdings),
	})
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart upload")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("file field is required")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}

// HandleExportCSV downloads the priced holdings as CSV
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	snapshot, _ := h.service.Snapshot(r.Context())

	var buf bytes.Buffer
	if err := csvio.WriteHoldings(&buf, snapshot.Holdings); err != nil {
		h.log.Error().Err(err).Msg("Failed to render CSV export")
		h.writeError(w, http.StatusInternalServerError, "Failed to render CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=portfolio_export.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleExportText downloads the plain-text report
func (h *Handler) HandleExportText(w http.ResponseWriter, r *http.Request) {
	a := h.service.Analyze(r.Context())
	rep := report.Generate(a.Result, a.Suggestions, h.now())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment;filename="+rep.Filename())
	w.Header().Set("X-Report-ID", rep.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, rep.Body)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrInvalidHolding):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Portfolio store operation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
