package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "databazar/internal/errors"
)

// FiltersHandler serves the distinct filter values the storefront UI
// offers for the live dataset.
type FiltersHandler struct {
	store  DataStore
	logger *slog.Logger
}

// NewFiltersHandler creates a filters handler
func NewFiltersHandler(store DataStore, logger *slog.Logger) *FiltersHandler {
	return &FiltersHandler{
		store:  store,
		logger: logger.With(slog.String("component", "filters_handler")),
	}
}

// Get handles GET /api/filters
func (h *FiltersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sectors, err := h.store.Sectors(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sector query failed", slog.String("error", err.Error()))
		apierrors.Respond(w, r, apierrors.SourceUnavailableError(err))
		return
	}

	codes, err := h.store.TradingCodes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "trading code query failed", slog.String("error", err.Error()))
		apierrors.Respond(w, r, apierrors.SourceUnavailableError(err))
		return
	}

	if sectors == nil {
		sectors = []string{}
	}
	if codes == nil {
		codes = []string{}
	}

	render.JSON(w, r, map[string]any{
		"sectors":      sectors,
		"tradingCodes": codes,
	})
}
